package layout

import (
	"image/color"
	"io"

	"github.com/charmbracelet/log"
)

// Defaults for a new Config.
const (
	DefaultWidth       = 2560
	DefaultHeight      = 1440
	DefaultIterations  = 15
	DefaultJitter      = 0.05
	DefaultMaxRotation = 5.0
	DefaultProtected   = 0.7
	DefaultMaxOverlap  = 0.3
	DefaultMaxAttempts = 1000
)

// Config is the canvas configuration for one layout run.
type Config struct {
	// Width and Height are the canvas size in pixels.
	Width  int
	Height int

	// Background is handed through to the compositor. An alpha of 0 means a
	// transparent canvas.
	Background color.NRGBA

	Strategy Strategy

	// Rows fixes the row count for the row strategy; 0 tries every count from
	// 1 to the number of items.
	Rows int

	// Iterations is the number of trials per row count.
	Iterations int

	// Jitter is the maximum positional shift as a fraction of item size.
	Jitter float64

	// MaxRotation bounds the rotation angle in degrees. 0 disables rotation.
	MaxRotation float64

	// Protected is the fraction of each item's bounding box treated as its
	// protected core.
	Protected float64

	// MaxOverlap is the largest fraction of a core another core may cover
	// during gap filling.
	MaxOverlap float64

	Style Style

	// Prescale resizes items around a canvas_area/n baseline before organic
	// placement. When false, items are placed at natural size.
	Prescale bool

	// MaxAttempts is the organic strategy's per-item sampling budget.
	MaxAttempts int

	// Seed drives every random choice. The same seed and configuration
	// reproduce the same result.
	Seed uint64

	// Workers bounds parallel trial evaluation. 0 uses one per CPU.
	Workers int

	// Logger receives debug progress. Nil discards.
	Logger *log.Logger
}

// DefaultConfig returns a configuration with the package defaults.
func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Background:  color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
		Strategy:    Rows,
		Iterations:  DefaultIterations,
		Jitter:      DefaultJitter,
		MaxRotation: DefaultMaxRotation,
		Protected:   DefaultProtected,
		MaxOverlap:  DefaultMaxOverlap,
		Style:       StyleOrganic,
		Prescale:    true,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Canvas returns the canvas size.
func (c *Config) Canvas() Size {
	return NewSize(c.Width, c.Height)
}

// Validate checks every field for range errors.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return newError(CodeInvalidConfig, "canvas must be positive (given %dx%d)", c.Width, c.Height)
	case c.Strategy != Rows && c.Strategy != Organic:
		return newError(CodeInvalidConfig, "unknown strategy %v", c.Strategy)
	case c.Rows < 0:
		return newError(CodeInvalidConfig, "rows must be >= 0 (given %d)", c.Rows)
	case c.Iterations < 1:
		return newError(CodeInvalidConfig, "iterations must be >= 1 (given %d)", c.Iterations)
	case c.Jitter < 0 || c.Jitter > 1:
		return newError(CodeInvalidConfig, "jitter must be within [0, 1] (given %v)", c.Jitter)
	case c.MaxRotation < 0 || c.MaxRotation > 180:
		return newError(CodeInvalidConfig, "max rotation must be within [0, 180] (given %v)", c.MaxRotation)
	case c.Protected <= 0 || c.Protected > 1:
		return newError(CodeInvalidConfig, "protected fraction must be within (0, 1] (given %v)", c.Protected)
	case c.MaxOverlap < 0 || c.MaxOverlap > 1:
		return newError(CodeInvalidConfig, "max overlap must be within [0, 1] (given %v)", c.MaxOverlap)
	case c.MaxAttempts < 1:
		return newError(CodeInvalidConfig, "max attempts must be >= 1 (given %d)", c.MaxAttempts)
	case c.Workers < 0:
		return newError(CodeInvalidConfig, "workers must be >= 0 (given %d)", c.Workers)
	}
	return nil
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discardLogger
}

var discardLogger = log.New(io.Discard)
