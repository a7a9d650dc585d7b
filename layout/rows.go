package layout

import (
	"math/rand/v2"
)

// rowLayout holds the inputs of the row-partition strategy.
type rowLayout struct {
	canvas      Size
	rows        int
	jitter      float64
	maxRotation float64
}

// layout shuffles items into r.rows rows, scales the rows to the canvas and
// scores the result by unused area. It reports false when no row has any
// height, which counts as a wasted trial.
func (r *rowLayout) layout(items []scaledItem, rng *rand.Rand) (Candidate, bool) {
	shuffled := append([]scaledItem(nil), items...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groups, heights := partitionRows(shuffled, r.rows)
	total := 0
	for _, h := range heights {
		total += h
	}
	if total == 0 {
		return Candidate{}, false
	}
	scaleY := min(1, float64(r.canvas.Height)/float64(total))

	placements := make([]Placement, 0, len(items))
	y := 0
	for i, row := range groups {
		rh := heights[i]
		if rh == 0 {
			continue
		}
		rowWidth := 0.0
		for _, it := range row {
			rowWidth += float64(it.w) * float64(rh) / float64(it.h)
		}
		scaleX := min(1, float64(r.canvas.Width)/rowWidth)
		scale := min(scaleX, scaleY)

		x := 0
		for _, it := range row {
			w := max(1, int(float64(it.w)*(float64(rh)/float64(it.h))*scale))
			h := max(1, int(float64(rh)*scale))
			placements = append(placements, r.place(it, x, y, w, h, rng))
			x += w
		}
		y += int(float64(rh) * scale)
	}

	return Candidate{
		Placements: placements,
		Score:      unusedArea(r.canvas, placements),
		Rows:       r.rows,
	}, true
}

// place jitters the row-computed position, clamps the box into the canvas and
// draws the rotation angle.
func (r *rowLayout) place(it scaledItem, x, y, w, h int, rng *rand.Rand) Placement {
	dx := int((rng.Float64() - 0.5) * r.jitter * float64(w))
	dy := int((rng.Float64() - 0.5) * r.jitter * float64(h))
	p := Placement{
		ID:    it.item.ID,
		Index: it.index,
		Rect: NewRect(
			clamp(x+dx, 0, r.canvas.Width-w),
			clamp(y+dy, 0, r.canvas.Height-h),
			w, h,
		),
	}
	if r.maxRotation > 0 {
		p.Rotation = (rng.Float64()*2 - 1) * r.maxRotation
	}
	return p
}

// partitionRows splits items into rows of ceil(n/rows) and returns the
// non-empty groups with each group's tallest natural height.
func partitionRows(items []scaledItem, rows int) ([][]scaledItem, []int) {
	n := len(items)
	if rows <= 0 || n == 0 {
		return nil, nil
	}
	perRow := (n + rows - 1) / rows
	groups := make([][]scaledItem, 0, rows)
	heights := make([]int, 0, rows)
	for start := 0; start < n; start += perRow {
		row := items[start:min(start+perRow, n)]
		tallest := 0
		for _, it := range row {
			tallest = max(tallest, it.h)
		}
		groups = append(groups, row)
		heights = append(heights, tallest)
	}
	return groups, heights
}
