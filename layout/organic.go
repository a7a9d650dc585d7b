package layout

import (
	"math"
	"math/rand/v2"
)

// gapFillSteps are the successive upscales tried for each placed item after
// the placement loop.
var gapFillSteps = []float64{1.02, 1.05, 1.08}

// organicLayout holds the inputs of the collision-budgeted strategy.
type organicLayout struct {
	canvas      Size
	preset      StylePreset
	prescale    bool
	protected   float64
	maxOverlap  float64
	maxRotation float64
	attempts    int
}

func newOrganicLayout(cfg *Config) *organicLayout {
	preset := cfg.Style.Preset()
	return &organicLayout{
		canvas:      cfg.Canvas(),
		preset:      preset,
		prescale:    cfg.Prescale,
		protected:   cfg.Protected,
		maxOverlap:  cfg.MaxOverlap,
		maxRotation: cfg.MaxRotation * preset.Rotation,
		attempts:    cfg.MaxAttempts,
	}
}

// organicItem is an item in the middle of organic placement.
type organicItem struct {
	scaledItem
	cx, cy float64
	angle  float64
	core   RectF
}

func (o *organicLayout) coreAt(cx, cy float64, w, h int, angle float64) RectF {
	rs := RotatedSize(w, h, angle)
	return CenteredRect(cx, cy, float64(rs.Width)*o.protected, float64(rs.Height)*o.protected)
}

// layout places every item and runs the gap-filling pass.
func (o *organicLayout) layout(items []scaledItem, rng *rand.Rand) (Candidate, error) {
	sized, err := o.resize(items, rng)
	if err != nil {
		return Candidate{}, err
	}
	sortScaled(sized, SortArea)

	var degraded []Degraded
	placed := make([]organicItem, 0, len(sized))
	for _, it := range sized {
		p, ratio, attempts := o.place(it, placed, rng)
		if ratio > 0 {
			degraded = append(degraded, Degraded{
				ID:       it.item.ID,
				Index:    it.index,
				Ratio:    ratio,
				Attempts: attempts,
			})
		}
		placed = append(placed, p)
	}
	o.fillGaps(placed)

	placements := make([]Placement, len(placed))
	for i, p := range placed {
		placements[i] = o.placement(p)
	}
	return Candidate{
		Placements: placements,
		Score:      unusedArea(o.canvas, placements),
		Degraded:   degraded,
	}, nil
}

// resize applies the style's random scale around the canvas_area/n baseline,
// capped so each box still fits the canvas. Without prescaling items keep
// their natural size. Either way a box larger than the canvas is infeasible.
func (o *organicLayout) resize(items []scaledItem, rng *rand.Rand) ([]scaledItem, error) {
	out := make([]scaledItem, len(items))
	target := float64(o.canvas.Area()) / float64(len(items))
	for i, it := range items {
		if o.prescale {
			w0, h0 := float64(it.item.Width), float64(it.item.Height)
			factor := o.preset.ScaleMin + rng.Float64()*(o.preset.ScaleMax-o.preset.ScaleMin)
			scale := math.Sqrt(target/(w0*h0)) * factor
			scale = min(scale, float64(o.canvas.Width)/w0, float64(o.canvas.Height)/h0)
			it.w = max(MinItemSize, int(w0*scale))
			it.h = max(MinItemSize, int(h0*scale))
		}
		if !it.size().Fits(o.canvas) {
			return nil, newError(CodeInfeasibleItem, "item %q is %dx%d, canvas is %dx%d",
				it.item.ID, it.w, it.h, o.canvas.Width, o.canvas.Height)
		}
		out[i] = it
	}
	return out, nil
}

// place samples positions for it until one leaves every placed core
// uncovered, or the budget runs out. It returns the chosen placement, its
// overlap ratio and the number of attempts used. On exhaustion the
// least-overlapping sample wins.
func (o *organicLayout) place(it scaledItem, placed []organicItem, rng *rand.Rand) (organicItem, float64, int) {
	var best organicItem
	bestRatio := math.Inf(1)
	halfW, halfH := float64(it.w)/2, float64(it.h)/2
	for attempt := 1; attempt <= o.attempts; attempt++ {
		cand := organicItem{scaledItem: it}
		cand.cx = halfW + rng.Float64()*float64(o.canvas.Width-it.w)
		cand.cy = halfH + rng.Float64()*float64(o.canvas.Height-it.h)
		if o.maxRotation > 0 {
			cand.angle = (rng.Float64()*2 - 1) * o.maxRotation
		}
		cand.core = o.coreAt(cand.cx, cand.cy, it.w, it.h, cand.angle)

		ratio := 0.0
		for _, p := range placed {
			ratio = max(ratio, OverlapRatio(cand.core, p.core))
			if ratio >= bestRatio {
				break
			}
		}
		if ratio == 0 {
			return cand, 0, attempt
		}
		if ratio < bestRatio {
			best, bestRatio = cand, ratio
		}
	}
	return best, bestRatio, o.attempts
}

// fillGaps grows each item in placement order by the largest step that keeps
// its core within the overlap ceiling of every other core and its box inside
// the canvas. Items never shrink.
func (o *organicLayout) fillGaps(placed []organicItem) {
	for i := range placed {
		p := &placed[i]
		baseW, baseH := p.w, p.h
		for _, step := range gapFillSteps {
			w := int(float64(baseW) * step)
			h := int(float64(baseH) * step)
			if !o.inside(p.cx, p.cy, w, h) {
				break
			}
			core := o.coreAt(p.cx, p.cy, w, h, p.angle)
			if !o.clear(core, placed, i) {
				break
			}
			p.w, p.h, p.core = w, h, core
		}
	}
}

func (o *organicLayout) inside(cx, cy float64, w, h int) bool {
	fw, fh := float64(w)/2, float64(h)/2
	return cx-fw >= 0 && cy-fh >= 0 &&
		cx+fw <= float64(o.canvas.Width) && cy+fh <= float64(o.canvas.Height)
}

// clear reports whether core stays within the overlap ceiling against every
// placed core except skip, measured from both sides.
func (o *organicLayout) clear(core RectF, placed []organicItem, skip int) bool {
	for j, other := range placed {
		if j == skip {
			continue
		}
		if OverlapRatio(core, other.core) > o.maxOverlap || OverlapRatio(other.core, core) > o.maxOverlap {
			return false
		}
	}
	return true
}

func (o *organicLayout) placement(p organicItem) Placement {
	x := math.Round(p.cx - float64(p.w)/2)
	y := math.Round(p.cy - float64(p.h)/2)
	return Placement{
		ID:       p.item.ID,
		Index:    p.index,
		Rect:     NewRect(clamp(int(x), 0, o.canvas.Width-p.w), clamp(int(y), 0, o.canvas.Height-p.h), p.w, p.h),
		Rotation: p.angle,
	}
}
