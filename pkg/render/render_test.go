package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

// paintedBounds returns the bounding box of all non-transparent pixels.
func paintedBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				found = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), found
}

func rawPixels(t *testing.T, img image.Image) []byte {
	t.Helper()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	return rgba.Pix
}

func TestRenderEmptySurface(t *testing.T) {
	r := newTestRenderer(t)
	set := mark.Set{Arrows: []mark.Arrow{{ID: "a", End: geometry.Point{X: 100, Y: 100}}}}

	for _, s := range []geometry.Surface{{Width: 0, Height: 0}, {Width: 100, Height: 0}, {Width: 0, Height: 100}, {Width: -5, Height: 100}} {
		if img := r.Render(s, set); img != nil {
			t.Errorf("Render on empty surface %v should return nil", s)
		}
	}
}

func TestRenderIdempotent(t *testing.T) {
	r := newTestRenderer(t)
	s := geometry.Surface{Width: 200, Height: 150}
	set := mark.Set{
		Arrows:  []mark.Arrow{{ID: "a", Start: geometry.Point{X: 10, Y: 10}, End: geometry.Point{X: 90, Y: 80}, Color: "#F00", StrokeWidth: 2}},
		Circles: []mark.Circle{{ID: "c", Center: geometry.Point{X: 50, Y: 50}, Radius: 20, Color: "#0F0", StrokeWidth: 2}},
		Texts:   []mark.Text{{ID: "t", Position: geometry.Point{X: 20, Y: 30}, Content: "ok", Color: "#00F", FontSize: 14}},
	}

	first := rawPixels(t, r.Render(s, set))
	second := rawPixels(t, r.Render(s, set))
	if !bytes.Equal(first, second) {
		t.Error("two renders of the same inputs differ")
	}
}

func TestCircleStaysRound(t *testing.T) {
	// radius 10 on a 400x200 surface must paint a circle of pixel radius
	// 10/100*200 = 20 in both directions, not a 40x20 ellipse.
	r := newTestRenderer(t)
	s := geometry.Surface{Width: 400, Height: 200}
	set := mark.Set{Circles: []mark.Circle{{
		ID:          "c",
		Center:      geometry.Point{X: 50, Y: 50},
		Radius:      10,
		Color:       "#FF0000",
		StrokeWidth: 2,
	}}}

	img := r.Render(s, set)
	box, found := paintedBounds(img)
	if !found {
		t.Fatal("circle painted nothing")
	}

	w, h := box.Dx(), box.Dy()
	if w < 40 || w > 46 || h < 40 || h > 46 {
		t.Errorf("painted extent %dx%d, want ~42x42", w, h)
	}
	if diff := w - h; diff < -2 || diff > 2 {
		t.Errorf("circle is not round: %dx%d", w, h)
	}

	// Centered at (200,100) on this surface.
	cx, cy := box.Min.X+w/2, box.Min.Y+h/2
	if cx < 198 || cx > 202 || cy < 98 || cy > 102 {
		t.Errorf("circle center at (%d,%d), want (200,100)", cx, cy)
	}
}

func TestArrowSpansSurface(t *testing.T) {
	r := newTestRenderer(t)
	s := geometry.Surface{Width: 800, Height: 800}
	set := mark.Set{Arrows: []mark.Arrow{{
		ID:          "a",
		Start:       geometry.Point{X: 0, Y: 0},
		End:         geometry.Point{X: 100, Y: 100},
		Color:       "#F00",
		StrokeWidth: 2,
	}}}

	img := r.Render(s, set)

	// The shaft runs corner to corner along the diagonal.
	for _, p := range []image.Point{{1, 1}, {200, 200}, {400, 400}, {600, 600}, {798, 798}} {
		if _, _, _, a := img.At(p.X, p.Y).RGBA(); a == 0 {
			t.Errorf("diagonal pixel (%d,%d) not painted", p.X, p.Y)
		}
	}

	// An off-diagonal pixel away from the head stays untouched.
	if _, _, _, a := img.At(400, 100).RGBA(); a != 0 {
		t.Error("pixel far from the arrow was painted")
	}

	// The arrowhead fans out around the end point at ±30° from the 45°
	// shaft, so within the head length there are painted pixels well off
	// the diagonal on both sides.
	above, below := false, false
	for y := 784; y < 800; y++ {
		for x := 784; x < 800; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			if x-y >= 4 {
				above = true
			}
			if y-x >= 4 {
				below = true
			}
		}
	}
	if !above || !below {
		t.Errorf("arrowhead segments missing near end point (above=%v below=%v)", above, below)
	}
}

func TestPaintOrderLaterOnTop(t *testing.T) {
	// Two overlapping arrows: the second one must paint over the first.
	r := newTestRenderer(t)
	s := geometry.Surface{Width: 100, Height: 100}
	set := mark.Set{Arrows: []mark.Arrow{
		{ID: "under", Start: geometry.Point{X: 0, Y: 50}, End: geometry.Point{X: 100, Y: 50}, Color: "#FF0000", StrokeWidth: 6},
		{ID: "over", Start: geometry.Point{X: 0, Y: 50}, End: geometry.Point{X: 100, Y: 50}, Color: "#0000FF", StrokeWidth: 6},
	}}

	img := r.Render(s, set)
	c := color.NRGBAModel.Convert(img.At(50, 50)).(color.NRGBA)
	if c.B < c.R {
		t.Errorf("expected the blue arrow on top at (50,50), got %+v", c)
	}
}

func TestRenderOverLeavesInputUntouched(t *testing.T) {
	r := newTestRenderer(t)
	photo := image.NewNRGBA(image.Rect(0, 0, 120, 80))
	for i := range photo.Pix {
		photo.Pix[i] = 0x80
	}
	before := make([]byte, len(photo.Pix))
	copy(before, photo.Pix)

	set := mark.Set{Circles: []mark.Circle{{ID: "c", Center: geometry.Point{X: 50, Y: 50}, Radius: 25, Color: "#F00", StrokeWidth: 3}}}
	out := r.RenderOver(photo, set)
	if out == nil {
		t.Fatal("RenderOver returned nil")
	}
	if !bytes.Equal(before, photo.Pix) {
		t.Error("RenderOver modified the input photo")
	}

	// The output actually carries the mark.
	ob := out.Bounds()
	if ob.Dx() != 120 || ob.Dy() != 80 {
		t.Errorf("output size %dx%d, want 120x80", ob.Dx(), ob.Dy())
	}
	marked := false
	for y := ob.Min.Y; y < ob.Max.Y && !marked; y++ {
		for x := ob.Min.X; x < ob.Max.X; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			if c.R > 0xC0 && c.G < 0x40 {
				marked = true
				break
			}
		}
	}
	if !marked {
		t.Error("no red circle pixels in output")
	}
}

func TestEmptySetRendersNothing(t *testing.T) {
	r := newTestRenderer(t)
	img := r.Render(geometry.Surface{Width: 50, Height: 50}, mark.Empty())
	if _, found := paintedBounds(img); found {
		t.Error("empty set painted pixels")
	}
}

func TestDegenerateArrowSkipsHead(t *testing.T) {
	// Zero-length arrow: nothing meaningful to point at; must not panic.
	r := newTestRenderer(t)
	s := geometry.Surface{Width: 100, Height: 100}
	set := mark.Set{Arrows: []mark.Arrow{{
		ID:    "a",
		Start: geometry.Point{X: 50, Y: 50},
		End:   geometry.Point{X: 50, Y: 50},
		Color: "#F00",
	}}}
	if img := r.Render(s, set); img == nil {
		t.Error("render of degenerate arrow returned nil")
	}
}

func TestEmptyTextSkipped(t *testing.T) {
	r := newTestRenderer(t)
	s := geometry.Surface{Width: 100, Height: 100}
	img := r.Render(s, mark.Set{Texts: []mark.Text{{ID: "t", Position: geometry.Point{X: 50, Y: 50}}}})
	if _, found := paintedBounds(img); found {
		t.Error("empty text content painted pixels")
	}
}

func BenchmarkRender(b *testing.B) {
	r, err := New()
	if err != nil {
		b.Fatal(err)
	}
	s := geometry.Surface{Width: 1920, Height: 1080}
	set := mark.Set{
		Arrows:  []mark.Arrow{{ID: "a", Start: geometry.Point{X: 10, Y: 10}, End: geometry.Point{X: 90, Y: 90}, Color: "#F00", StrokeWidth: 3}},
		Circles: []mark.Circle{{ID: "c", Center: geometry.Point{X: 40, Y: 60}, Radius: 15, Color: "#0F0", StrokeWidth: 3}},
		Texts:   []mark.Text{{ID: "t", Position: geometry.Point{X: 20, Y: 20}, Content: "junction box", Color: "#FF0", FontSize: 18}},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(s, set)
	}
}
