package layout

import (
	"fmt"
	"strings"
)

// Strategy selects the placement algorithm.
type Strategy uint8

const (
	// Rows partitions shuffled items into rows and keeps the best of many trials.
	Rows Strategy = iota
	// Organic scatters items one by one, limiting how much their cores overlap.
	Organic
)

func (s Strategy) String() string {
	switch s {
	case Rows:
		return "rows"
	case Organic:
		return "organic"
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// ParseStrategy resolves a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rows", "row", "":
		return Rows, nil
	case "organic":
		return Organic, nil
	}
	return 0, newError(CodeInvalidConfig, "unknown strategy %q (rows, organic)", name)
}

// Style controls how uniform the organic strategy's sizing and rotation are.
type Style uint8

const (
	// StyleOrganic is the default: mild size variation and full rotation.
	StyleOrganic Style = iota
	// StyleSimple keeps sizes uniform and halves rotation.
	StyleSimple
	// StyleChaotic varies sizes widely and exaggerates rotation.
	StyleChaotic
)

// StylePreset holds the numbers behind a Style.
type StylePreset struct {
	// ScaleMin and ScaleMax bound the random factor applied around the
	// target-area baseline.
	ScaleMin, ScaleMax float64
	// Rotation multiplies the configured maximum rotation.
	Rotation float64
}

var stylePresets = map[Style]StylePreset{
	StyleSimple:  {ScaleMin: 0.85, ScaleMax: 0.95, Rotation: 0.5},
	StyleOrganic: {ScaleMin: 0.90, ScaleMax: 1.05, Rotation: 1.0},
	StyleChaotic: {ScaleMin: 0.75, ScaleMax: 1.20, Rotation: 1.5},
}

// Preset returns the numbers behind s. Unknown styles fall back to organic.
func (s Style) Preset() StylePreset {
	if p, ok := stylePresets[s]; ok {
		return p
	}
	return stylePresets[StyleOrganic]
}

func (s Style) String() string {
	switch s {
	case StyleOrganic:
		return "organic"
	case StyleSimple:
		return "simple"
	case StyleChaotic:
		return "chaotic"
	}
	return fmt.Sprintf("Style(%d)", s)
}

// ParseStyle resolves a style name.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "organic", "":
		return StyleOrganic, nil
	case "simple":
		return StyleSimple, nil
	case "chaotic":
		return StyleChaotic, nil
	}
	return 0, newError(CodeInvalidConfig, "unknown style %q (simple, organic, chaotic)", name)
}
