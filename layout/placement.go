package layout

// Placement positions one item on the canvas.
type Placement struct {
	// ID is the item's identifier.
	ID string `json:"id" yaml:"id"`
	// Index is the item's position in the input.
	Index int `json:"index" yaml:"index"`
	// Rect is the unrotated box in canvas coordinates.
	Rect `yaml:",inline"`
	// Rotation is the angle in degrees, counter-clockwise. 0 when disabled.
	Rotation float64 `json:"rotation" yaml:"rotation"`
}

// RotatedSize returns the bounding box size after rotation.
func (p Placement) RotatedSize() Size {
	return RotatedSize(p.Width, p.Height, p.Rotation)
}

// Bounds returns the rotation-expanded box centred where the unrotated box is.
func (p Placement) Bounds() Rect {
	rs := p.RotatedSize()
	cx2 := 2*p.X + p.Width
	cy2 := 2*p.Y + p.Height
	return NewRect((cx2-rs.Width)/2, (cy2-rs.Height)/2, rs.Width, rs.Height)
}

// Fit returns the top-left corner at which the rotated image should be drawn
// so that its expanded box stays inside a w x h canvas. A box larger than the
// canvas is anchored at the origin on that axis.
func (p Placement) Fit(w, h int) Point {
	b := p.Bounds()
	return Point{
		X: clamp(b.X, 0, max(0, w-b.Width)),
		Y: clamp(b.Y, 0, max(0, h-b.Height)),
	}
}

// Degraded records an organic placement that ran out of attempts and fell back
// to its least-overlapping sample.
type Degraded struct {
	ID       string  `json:"id" yaml:"id"`
	Index    int     `json:"index" yaml:"index"`
	Ratio    float64 `json:"ratio" yaml:"ratio"`
	Attempts int     `json:"attempts" yaml:"attempts"`
}

// Candidate is one complete trial layout.
type Candidate struct {
	Placements []Placement `json:"placements" yaml:"placements"`
	// Score is the unused canvas area. Lower is better.
	Score int `json:"score" yaml:"score"`
	// Rows is the row count the candidate was built with, 0 for organic.
	Rows     int        `json:"rows,omitempty" yaml:"rows,omitempty"`
	Degraded []Degraded `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// UsedArea returns the summed area of the unrotated boxes.
func (c *Candidate) UsedArea() int {
	area := 0
	for _, p := range c.Placements {
		area += p.Area()
	}
	return area
}

// Coverage returns the used area as a fraction of the canvas, capped at 1.
func (c *Candidate) Coverage(canvas Size) float64 {
	if canvas.Area() == 0 {
		return 0
	}
	return min(1, float64(c.UsedArea())/float64(canvas.Area()))
}

func unusedArea(canvas Size, placements []Placement) int {
	used := 0
	for _, p := range placements {
		used += p.Area()
	}
	return canvas.Area() - used
}

// Result is the final placement result of a layout run.
type Result struct {
	Candidate `yaml:",inline"`
	Strategy  Strategy `json:"-" yaml:"-"`
	Seed      uint64   `json:"seed" yaml:"seed"`
	// Trials is the number of trials evaluated, Wasted how many of them
	// produced no candidate.
	Trials int `json:"trials" yaml:"trials"`
	Wasted int `json:"wasted" yaml:"wasted"`
	// Partial is set when the context ended before all trials were evaluated.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`
}
