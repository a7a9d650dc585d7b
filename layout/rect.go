package layout

import (
	"fmt"
	"math"
)

// Point describes a position in canvas coordinates.
type Point struct {
	// X is the position on the horizontal axis.
	X int `json:"x" yaml:"x"`
	// Y is the position on the vertical axis.
	Y int `json:"y" yaml:"y"`
}

// String returns the point as "[x, y]".
func (p Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Size describes the dimensions of an entity.
type Size struct {
	// Width is the dimension on the horizontal axis.
	Width int `json:"width" yaml:"width"`
	// Height is the dimension on the vertical axis.
	Height int `json:"height" yaml:"height"`
}

// NewSize creates a size with the given dimensions.
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// String returns the size as "[w, h]".
func (sz Size) String() string {
	return fmt.Sprintf("[%v, %v]", sz.Width, sz.Height)
}

// Area returns width * height.
func (sz Size) Area() int {
	return sz.Width * sz.Height
}

// Ratio returns width / height.
func (sz Size) Ratio() float64 {
	return float64(sz.Width) / float64(sz.Height)
}

// Fits reports whether sz fits inside other in both dimensions.
func (sz Size) Fits(other Size) bool {
	return sz.Width <= other.Width && sz.Height <= other.Height
}

// Rect describes a top-left position and a size.
type Rect struct {
	Point `yaml:",inline"`
	Size  `yaml:",inline"`
}

// NewRect initializes a rectangle from a position and a size.
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// String returns the rectangle as "[x, y, w, h]".
func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// ContainsRect tests whether rect lies entirely within r.
func (r Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		rect.X+rect.Width <= r.X+r.Width &&
		r.Y <= rect.Y &&
		rect.Y+rect.Height <= r.Y+r.Height
}

// Intersects tests whether r and rect share any area. Touching edges do not count.
func (r Rect) Intersects(rect Rect) bool {
	return rect.X < r.X+r.Width &&
		r.X < rect.X+rect.Width &&
		rect.Y < r.Y+r.Height &&
		r.Y < rect.Y+rect.Height
}

// Intersect returns the area shared by r and rect, or an empty rectangle.
func (r Rect) Intersect(rect Rect) (result Rect) {
	x1 := max(r.X, rect.X)
	x2 := min(r.X+r.Width, rect.X+rect.Width)
	y1 := max(r.Y, rect.Y)
	y2 := min(r.Y+r.Height, rect.Y+rect.Height)
	if x2 > x1 && y2 > y1 {
		result = NewRect(x1, y1, x2-x1, y2-y1)
	}
	return
}

// RectF is an axis-aligned rectangle in continuous coordinates, stored by its
// corners. Protected cores are RectF values because they are centred on
// sampled, non-integral positions.
type RectF struct {
	MinX, MinY, MaxX, MaxY float64
}

// CenteredRect returns the w x h rectangle centred on (cx, cy).
func CenteredRect(cx, cy, w, h float64) RectF {
	return RectF{
		MinX: cx - w/2,
		MinY: cy - h/2,
		MaxX: cx + w/2,
		MaxY: cy + h/2,
	}
}

// Area returns the rectangle's area, or 0 for degenerate rectangles.
func (r RectF) Area() float64 {
	if r.MaxX <= r.MinX || r.MaxY <= r.MinY {
		return 0
	}
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

// Overlap returns the area shared by a and b. It is symmetric and returns 0
// for disjoint or edge-touching rectangles.
func Overlap(a, b RectF) float64 {
	x1 := max(a.MinX, b.MinX)
	y1 := max(a.MinY, b.MinY)
	x2 := min(a.MaxX, b.MaxX)
	y2 := min(a.MaxY, b.MaxY)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

// OverlapRatio returns Overlap(a, b) / area(a), or 0 when a has no area.
func OverlapRatio(a, b RectF) float64 {
	area := a.Area()
	if area <= 0 {
		return 0
	}
	return Overlap(a, b) / area
}

// RotatedSize returns the bounding box of a w x h rectangle rotated by deg
// degrees about its centre. The box grows with rotation and is rounded up to
// whole pixels, matching an expanding raster rotation.
func RotatedSize(w, h int, deg float64) Size {
	if deg == 0 {
		return NewSize(w, h)
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	fw, fh := float64(w), float64(h)
	// Trim float noise so that 90 degree turns do not gain a pixel.
	rw := math.Ceil(fw*cos + fh*sin - 1e-9)
	rh := math.Ceil(fw*sin + fh*cos - 1e-9)
	return NewSize(int(rw), int(rh))
}

// clamp limits v to [lo, hi]. When hi < lo the result is lo.
func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
