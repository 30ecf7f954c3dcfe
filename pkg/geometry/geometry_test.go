package geometry

import (
	"math"
	"testing"
)

func TestPointPixels(t *testing.T) {
	s := Surface{Width: 400, Height: 200}

	tests := []struct {
		name   string
		point  Point
		px, py float64
	}{
		{"origin", Point{0, 0}, 0, 0},
		{"center", Point{50, 50}, 200, 100},
		{"far corner", Point{100, 100}, 400, 200},
		{"asymmetric", Point{25, 75}, 100, 150},
		{"out of range", Point{150, -50}, 600, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py := tt.point.Pixels(s)
			if px != tt.px || py != tt.py {
				t.Errorf("Pixels() = (%v,%v), want (%v,%v)", px, py, tt.px, tt.py)
			}
		})
	}
}

func TestFromPixelsRoundTrip(t *testing.T) {
	s := Surface{Width: 800, Height: 600}

	points := []Point{{0, 0}, {50, 50}, {100, 100}, {13.5, 87.25}}
	for _, p := range points {
		px, py := p.Pixels(s)
		back := FromPixels(px, py, s)
		if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}

func TestFromPixelsEmptySurface(t *testing.T) {
	got := FromPixels(100, 100, Surface{Width: 0, Height: 480})
	if got != (Point{}) {
		t.Errorf("expected zero point for empty surface, got %v", got)
	}
}

func TestRadiusPixelsUniformScaling(t *testing.T) {
	// A radius must scale against the shorter dimension so circles stay
	// round on non-square surfaces: radius 10 on 400x200 is 20px, not 40px.
	s := Surface{Width: 400, Height: 200}
	if pr := RadiusPixels(10, s); pr != 20 {
		t.Errorf("RadiusPixels(10) = %v, want 20", pr)
	}

	// Same answer when the short side is the width.
	s = Surface{Width: 200, Height: 400}
	if pr := RadiusPixels(10, s); pr != 20 {
		t.Errorf("RadiusPixels(10) on portrait = %v, want 20", pr)
	}
}

func TestRadiusFromPixels(t *testing.T) {
	s := Surface{Width: 400, Height: 200}
	if r := RadiusFromPixels(20, s); r != 10 {
		t.Errorf("RadiusFromPixels(20) = %v, want 10", r)
	}
	if r := RadiusFromPixels(20, Surface{}); r != 0 {
		t.Errorf("RadiusFromPixels on empty surface = %v, want 0", r)
	}
}

func TestDistance(t *testing.T) {
	s := Surface{Width: 100, Height: 100}
	d := Distance(Point{0, 0}, Point{30, 40}, s)
	if math.Abs(d-50) > 1e-9 {
		t.Errorf("Distance = %v, want 50", d)
	}
}

func TestSurfaceEmpty(t *testing.T) {
	tests := []struct {
		s     Surface
		empty bool
	}{
		{Surface{0, 0}, true},
		{Surface{100, 0}, true},
		{Surface{0, 100}, true},
		{Surface{-1, 100}, true},
		{Surface{1, 1}, false},
	}
	for _, tt := range tests {
		if got := tt.s.Empty(); got != tt.empty {
			t.Errorf("Surface%v.Empty() = %v, want %v", tt.s, got, tt.empty)
		}
	}
}

func TestClamp(t *testing.T) {
	p := Point{X: -10, Y: 150}.Clamp()
	if p.X != 0 || p.Y != 100 {
		t.Errorf("Clamp() = %v, want {0 100}", p)
	}
}
