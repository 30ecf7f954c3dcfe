// Package mark defines the drawable annotation primitives placed on
// inspection photos and the set container that holds them.
package mark

import (
	"fmt"
	"image/color"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/photomark/photomark/pkg/geometry"
)

// Arrow points from Start to End, both in percent coordinates.
type Arrow struct {
	ID          string         `json:"id"`
	Start       geometry.Point `json:"start"`
	End         geometry.Point `json:"end"`
	Color       string         `json:"color"`
	StrokeWidth float64        `json:"strokeWidth"`
}

// Circle is a stroked ring around a finding. Radius is a percentage of the
// shorter surface dimension (see geometry.RadiusPixels).
type Circle struct {
	ID          string         `json:"id"`
	Center      geometry.Point `json:"center"`
	Radius      float64        `json:"radius"`
	Color       string         `json:"color"`
	StrokeWidth float64        `json:"strokeWidth"`
}

// Text is a short label anchored at Position. FontSize is interpreted in
// pixels against the surface the text is rendered on.
type Text struct {
	ID       string         `json:"id"`
	Position geometry.Point `json:"position"`
	Content  string         `json:"content"`
	Color    string         `json:"color"`
	FontSize float64        `json:"fontSize"`
}

// Set holds every mark on one photo. Slice order is paint order: later
// entries draw on top within their own kind, and kinds always paint in the
// fixed order arrows, circles, texts.
type Set struct {
	Arrows  []Arrow
	Circles []Circle
	Texts   []Text
}

// Empty returns the canonical no-annotations value.
func Empty() Set {
	return Set{}
}

// IsEmpty reports whether the set contains no marks. An empty set and an
// absent persisted document are equivalent for rendering.
func (s Set) IsEmpty() bool {
	return len(s.Arrows) == 0 && len(s.Circles) == 0 && len(s.Texts) == 0
}

// Len returns the total number of marks across all kinds.
func (s Set) Len() int {
	return len(s.Arrows) + len(s.Circles) + len(s.Texts)
}

// Clone returns a deep copy. History snapshots and display surfaces must
// never alias the slices of a live editing set.
func (s Set) Clone() Set {
	out := Set{}
	if len(s.Arrows) > 0 {
		out.Arrows = make([]Arrow, len(s.Arrows))
		copy(out.Arrows, s.Arrows)
	}
	if len(s.Circles) > 0 {
		out.Circles = make([]Circle, len(s.Circles))
		copy(out.Circles, s.Circles)
	}
	if len(s.Texts) > 0 {
		out.Texts = make([]Text, len(s.Texts))
		copy(out.Texts, s.Texts)
	}
	return out
}

var idCounter atomic.Uint64

// NewID returns an identifier unique within the process: a kind prefix, the
// creation timestamp and a counter to separate IDs minted in the same
// nanosecond. IDs are opaque to everything but debugging.
func NewID(kind string) string {
	return fmt.Sprintf("%s-%d-%d", kind, time.Now().UnixNano(), idCounter.Add(1))
}

// DefaultColor is used when a mark carries no parseable color. Red matches
// the dominant convention for defect marks on inspection photos.
var DefaultColor = color.NRGBA{R: 255, A: 255}

// ParseColor parses a #RGB or #RRGGBB hex color. Malformed values fall back
// to DefaultColor; a bad color must never prevent a mark from rendering.
func ParseColor(s string) color.NRGBA {
	if len(s) == 0 || s[0] != '#' {
		return DefaultColor
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return DefaultColor
		}
		r := uint8(v >> 8 & 0xF)
		g := uint8(v >> 4 & 0xF)
		b := uint8(v & 0xF)
		return color.NRGBA{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 255}
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return DefaultColor
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	default:
		return DefaultColor
	}
}
