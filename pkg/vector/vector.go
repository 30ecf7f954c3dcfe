// Package vector converts an annotation set into resolution-independent
// primitives for the generated inspection report. The report generator
// embeds the primitives as a static overlay on top of the photo at whatever
// size the page layout chooses; geometry is expressed against a fixed
// virtual canvas so no pixel dimensions leak into the export.
package vector

import (
	"fmt"
	"io"
	"math"

	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
)

// CanvasSize is the side length of the square virtual canvas. The canvas
// being square makes the position and radius scaling rules coincide.
const CanvasSize = 1000

// canvas is the virtual surface all primitives are projected onto.
var canvas = geometry.Surface{Width: CanvasSize, Height: CanvasSize}

// headLength is the arrowhead segment length on the virtual canvas, chosen
// to match the raster renderer's fixed head at a typical photo size.
const headLength = 18.0

// Fallbacks for marks hydrated from partial documents, matching the raster
// renderer's defaults so such marks stay visible in the report overlay too.
const (
	defaultStrokeWidth = 2
	defaultFontSize    = 16
)

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

func fontSize(s float64) float64 {
	if s <= 0 {
		return defaultFontSize
	}
	return s
}

// Line is a straight stroked segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
}

// Circle is a stroked, unfilled circle.
type Circle struct {
	CX, CY, R float64
	Color     string
	Width     float64
}

// Text is a positioned text run.
type Text struct {
	X, Y    float64
	Content string
	Color   string
	Size    float64
}

// Primitive is one element of the exported overlay: Line, Circle or Text.
type Primitive interface {
	isPrimitive()
}

func (Line) isPrimitive()   {}
func (Circle) isPrimitive() {}
func (Text) isPrimitive()   {}

// Export projects the set onto the virtual canvas. The result preserves
// paint order: arrow primitives first, then circles, then texts. An empty
// set exports to a nil slice so the report can omit the overlay entirely.
func Export(set mark.Set) []Primitive {
	if set.IsEmpty() {
		return nil
	}

	var prims []Primitive
	for _, a := range set.Arrows {
		prims = append(prims, exportArrow(a)...)
	}
	for _, c := range set.Circles {
		cx, cy := c.Center.Pixels(canvas)
		prims = append(prims, Circle{
			CX:    cx,
			CY:    cy,
			R:     geometry.RadiusPixels(c.Radius, canvas),
			Color: c.Color,
			Width: strokeWidth(c.StrokeWidth),
		})
	}
	for _, t := range set.Texts {
		x, y := t.Position.Pixels(canvas)
		prims = append(prims, Text{
			X:       x,
			Y:       y,
			Content: t.Content,
			Color:   t.Color,
			Size:    fontSize(t.FontSize),
		})
	}
	return prims
}

// exportArrow emits the shaft plus the two arrowhead segments at ±30° from
// the shaft direction, mirroring the raster renderer.
func exportArrow(a mark.Arrow) []Primitive {
	sx, sy := a.Start.Pixels(canvas)
	ex, ey := a.End.Pixels(canvas)

	w := strokeWidth(a.StrokeWidth)
	prims := []Primitive{Line{X1: sx, Y1: sy, X2: ex, Y2: ey, Color: a.Color, Width: w}}

	dx, dy := ex-sx, ey-sy
	if math.Hypot(dx, dy) < 0.1 {
		return prims
	}
	angle := math.Atan2(dy, dx)
	for _, da := range []float64{-math.Pi / 6, math.Pi / 6} {
		prims = append(prims, Line{
			X1:    ex,
			Y1:    ey,
			X2:    ex - headLength*math.Cos(angle+da),
			Y2:    ey - headLength*math.Sin(angle+da),
			Color: a.Color,
			Width: w,
		})
	}
	return prims
}

// WriteSVG writes the primitives as a standalone SVG overlay with a
// CanvasSize viewBox. Writing an empty primitive list emits nothing at all;
// callers decide whether an overlay element belongs on the page.
func WriteSVG(w io.Writer, prims []Primitive) error {
	if len(prims) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\">\n",
		CanvasSize, CanvasSize); err != nil {
		return err
	}

	for _, p := range prims {
		var err error
		switch v := p.(type) {
		case Line:
			_, err = fmt.Fprintf(w,
				"  <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"%.2f\" stroke-linecap=\"round\"/>\n",
				v.X1, v.Y1, v.X2, v.Y2, svgColor(v.Color), v.Width)
		case Circle:
			_, err = fmt.Fprintf(w,
				"  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" stroke=\"%s\" stroke-width=\"%.2f\" fill=\"none\"/>\n",
				v.CX, v.CY, v.R, svgColor(v.Color), v.Width)
		case Text:
			_, err = fmt.Fprintf(w,
				"  <text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"%.2f\">%s</text>\n",
				v.X, v.Y, svgColor(v.Color), v.Size, escapeText(v.Content))
		}
		if err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</svg>\n")
	return err
}

// svgColor normalizes a mark color for SVG output, falling back like the
// raster path does for malformed values.
func svgColor(s string) string {
	c := mark.ParseColor(s)
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// escapeText escapes the XML special characters allowed in mark content.
func escapeText(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		case '"':
			out = append(out, "&quot;"...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
