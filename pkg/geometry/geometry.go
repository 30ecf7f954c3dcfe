// Package geometry defines the normalized coordinate space shared by every
// surface that displays or edits photo annotations.
//
// Positions are expressed as percentages of the target surface: X against its
// width, Y against its height, each axis independently. A point at (50,50) is
// the visual center of any surface regardless of aspect ratio. Circle radii
// are the one deliberate exception: a radius is a percentage of the shorter
// surface dimension so that circles stay circular on non-square photos.
package geometry

import "math"

// Point is a position in percent coordinates. X is a percentage of the
// surface width, Y of the surface height, each nominally in [0,100].
// Out-of-range values are tolerated (they occur mid-gesture) and simply map
// to off-surface pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Surface describes a pixel-addressable rendering target.
type Surface struct {
	Width  int
	Height int
}

// Empty reports whether the surface has no drawable area, e.g. a view that
// has not been laid out yet.
func (s Surface) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// MinSide returns the shorter surface dimension in pixels.
func (s Surface) MinSide() int {
	if s.Width < s.Height {
		return s.Width
	}
	return s.Height
}

// Pixels converts a percent position to pixel coordinates on the given
// surface. Axes scale independently.
func (p Point) Pixels(s Surface) (px, py float64) {
	return p.X / 100 * float64(s.Width), p.Y / 100 * float64(s.Height)
}

// FromPixels converts pixel coordinates on a surface back to percent
// coordinates. An empty surface yields the zero point.
func FromPixels(px, py float64, s Surface) Point {
	if s.Empty() {
		return Point{}
	}
	return Point{
		X: px / float64(s.Width) * 100,
		Y: py / float64(s.Height) * 100,
	}
}

// RadiusPixels converts a percent radius to pixels. Radii scale uniformly
// against the shorter surface dimension so a circle renders as a circle.
func RadiusPixels(radius float64, s Surface) float64 {
	return radius / 100 * float64(s.MinSide())
}

// RadiusFromPixels normalizes a pixel radius against the shorter surface
// dimension, the inverse of RadiusPixels. An empty surface yields zero.
func RadiusFromPixels(pr float64, s Surface) float64 {
	if s.Empty() {
		return 0
	}
	return pr / float64(s.MinSide()) * 100
}

// Distance returns the pixel distance between two percent points projected
// onto the given surface. Used to derive a circle radius from a drag.
func Distance(a, b Point, s Surface) float64 {
	ax, ay := a.Pixels(s)
	bx, by := b.Pixels(s)
	return math.Hypot(bx-ax, by-ay)
}

// Clamp constrains a point to the [0,100] percent range on both axes.
func (p Point) Clamp() Point {
	return Point{X: clamp(p.X, 0, 100), Y: clamp(p.Y, 0, 100)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
