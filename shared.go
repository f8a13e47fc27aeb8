package tiled

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB color, as used by map background colors, object
// group tints and image transparency keys.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// ParseColor parses a "#rrggbb" or "rrggbb" hex color string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{
		Red:   uint8(v >> 16),
		Green: uint8(v >> 8),
		Blue:  uint8(v),
	}, nil
}

// Orientation is the map's tile arrangement scheme.
type Orientation int

const (
	Orthogonal Orientation = iota
	Isometric
	Staggered
	Hexagonal
)

func (o Orientation) String() string {
	switch o {
	case Orthogonal:
		return "orthogonal"
	case Isometric:
		return "isometric"
	case Staggered:
		return "staggered"
	case Hexagonal:
		return "hexagonal"
	}
	return "unknown"
}

func parseOrientation(s string) (Orientation, bool) {
	switch s {
	case "orthogonal":
		return Orthogonal, true
	case "isometric":
		return Isometric, true
	case "staggered":
		return Staggered, true
	case "hexagonal":
		return Hexagonal, true
	}
	return 0, false
}

func orientationAttr(dst *Orientation) func(string) bool {
	return func(v string) bool {
		o, ok := parseOrientation(v)
		if !ok {
			return false
		}
		*dst = o
		return true
	}
}
