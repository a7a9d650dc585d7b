package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// parseColor accepts "transparent", "#rgb", "#rrggbb" or "r,g,b".
func parseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: want r,g,b", s)
		}
		var rgb [3]uint8
		for i, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
}

// formatColor is the inverse of parseColor.
func formatColor(c color.NRGBA) string {
	if c.A == 0 {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
