// Package render paints annotation sets onto pixel surfaces. Every raster
// consumer of an annotation set, from grid thumbnails to the full-screen
// editor, goes through the same Renderer so the geometry cannot drift
// between surfaces.
package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
)

// Options holds rendering defaults applied when a mark carries no usable
// value of its own.
type Options struct {
	// ArrowheadLength is the length in pixels of the two arrowhead
	// segments. It is a fixed pixel size, not normalized, so heads look
	// the same on a thumbnail and on a full-resolution photo.
	ArrowheadLength float64
	// DefaultStrokeWidth is used for marks with a zero or negative width.
	DefaultStrokeWidth float64
	// DefaultFontSize is used for texts with a zero or negative size.
	DefaultFontSize float64
	// FontTTF is the TTF font used for text marks. Defaults to Go Regular.
	FontTTF []byte
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		ArrowheadLength:    14,
		DefaultStrokeWidth: 2,
		DefaultFontSize:    16,
		FontTTF:            goregular.TTF,
	}
}

// Renderer paints annotation sets. It is stateless between calls: rendering
// the same inputs twice produces the same output, and nothing accumulates
// across calls.
type Renderer struct {
	opts  Options
	font  *truetype.Font
	faces map[float64]font.Face
}

// New creates a Renderer with default options.
func New() (*Renderer, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Renderer with custom options.
func NewWithOptions(opts Options) (*Renderer, error) {
	if opts.ArrowheadLength <= 0 {
		opts.ArrowheadLength = DefaultOptions().ArrowheadLength
	}
	if opts.DefaultStrokeWidth <= 0 {
		opts.DefaultStrokeWidth = DefaultOptions().DefaultStrokeWidth
	}
	if opts.DefaultFontSize <= 0 {
		opts.DefaultFontSize = DefaultOptions().DefaultFontSize
	}
	if len(opts.FontTTF) == 0 {
		opts.FontTTF = goregular.TTF
	}

	f, err := truetype.Parse(opts.FontTTF)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		opts:  opts,
		font:  f,
		faces: map[float64]font.Face{},
	}, nil
}

// Render paints the set onto a fresh transparent overlay of the surface's
// size. Returns nil for an empty surface; callers retry after layout.
func (r *Renderer) Render(s geometry.Surface, set mark.Set) image.Image {
	if s.Empty() {
		return nil
	}
	dc := gg.NewContext(s.Width, s.Height)
	r.paint(dc, s, set)
	return dc.Image()
}

// RenderOver paints the set over a copy of the photo at the photo's own
// dimensions. The input image is never modified.
func (r *Renderer) RenderOver(img image.Image, set mark.Set) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	s := geometry.Surface{Width: b.Dx(), Height: b.Dy()}
	if s.Empty() {
		return img
	}
	dc := gg.NewContextForImage(img)
	r.paint(dc, s, set)
	return dc.Image()
}

// paint draws all arrows, then all circles, then all texts, each kind in
// insertion order.
func (r *Renderer) paint(dc *gg.Context, s geometry.Surface, set mark.Set) {
	for _, a := range set.Arrows {
		r.paintArrow(dc, s, a)
	}
	for _, c := range set.Circles {
		r.paintCircle(dc, s, c)
	}
	for _, t := range set.Texts {
		r.paintText(dc, s, t)
	}
}

func (r *Renderer) strokeWidth(w float64) float64 {
	if w <= 0 {
		return r.opts.DefaultStrokeWidth
	}
	return w
}

func (r *Renderer) paintArrow(dc *gg.Context, s geometry.Surface, a mark.Arrow) {
	sx, sy := a.Start.Pixels(s)
	ex, ey := a.End.Pixels(s)

	dc.SetColor(mark.ParseColor(a.Color))
	dc.SetLineWidth(r.strokeWidth(a.StrokeWidth))
	dc.DrawLine(sx, sy, ex, ey)
	dc.Stroke()

	// Arrowhead: two segments of fixed pixel length at ±30° from the
	// shaft direction, anchored at the end point.
	dx, dy := ex-sx, ey-sy
	if math.Hypot(dx, dy) < 0.1 {
		return
	}
	angle := math.Atan2(dy, dx)
	length := r.opts.ArrowheadLength
	for _, da := range []float64{-math.Pi / 6, math.Pi / 6} {
		hx := ex - length*math.Cos(angle+da)
		hy := ey - length*math.Sin(angle+da)
		dc.DrawLine(ex, ey, hx, hy)
		dc.Stroke()
	}
}

func (r *Renderer) paintCircle(dc *gg.Context, s geometry.Surface, c mark.Circle) {
	pr := geometry.RadiusPixels(c.Radius, s)
	if pr <= 0 {
		return
	}
	cx, cy := c.Center.Pixels(s)

	dc.SetColor(mark.ParseColor(c.Color))
	dc.SetLineWidth(r.strokeWidth(c.StrokeWidth))
	dc.DrawCircle(cx, cy, pr)
	dc.Stroke()
}

func (r *Renderer) paintText(dc *gg.Context, s geometry.Surface, t mark.Text) {
	if t.Content == "" {
		return
	}
	size := t.FontSize
	if size <= 0 {
		size = r.opts.DefaultFontSize
	}
	px, py := t.Position.Pixels(s)

	dc.SetFontFace(r.face(size))
	dc.SetColor(mark.ParseColor(t.Color))
	dc.DrawString(t.Content, px, py)
}

// face returns a cached font face for the given pixel size. At 72 DPI the
// point size equals the pixel size, which keeps FontSize meaning "pixels on
// this surface" on every render target.
func (r *Renderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}
