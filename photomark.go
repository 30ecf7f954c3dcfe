// Package photomark is a photo annotation engine for electrical-installation
// inspection reports.
//
// Marks (arrows, circles, text labels) live in a normalized percent
// coordinate space, so one annotation set renders identically on a grid
// thumbnail, a full-screen viewer, an editable canvas and the vector overlay
// embedded in a generated report page.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//		"os"
//
//		"github.com/photomark/photomark"
//		"github.com/photomark/photomark/pkg/geometry"
//		"github.com/photomark/photomark/pkg/photo"
//		"github.com/photomark/photomark/pkg/session"
//	)
//
//	func main() {
//		engine, err := photomark.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		img, err := photo.Load("panel.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//		doc, _ := os.ReadFile("panel.marks.json")
//
//		// Edit: draw an arrow across the photo.
//		edit := engine.Edit(engine.Hydrate(doc))
//		edit.SelectTool(session.ToolArrow)
//		surf := geometry.Surface{Width: 1200, Height: 900}
//		edit.PointerDown(100, 100, surf)
//		edit.PointerUp(600, 450, surf)
//		saved, _ := engine.Persist(edit.Save())
//		os.WriteFile("panel.marks.json", saved, 0644)
//
//		// Display: paint the marks over the photo.
//		annotated := engine.Annotate(img, engine.Hydrate(saved))
//		photo.Save(annotated, "panel_annotated.jpg", "jpg", 90, false)
//	}
//
// The engine is built from small component packages:
//
//  1. Geometry (pkg/geometry): the percent coordinate space and transforms
//  2. Mark (pkg/mark): the drawable primitives and the set container
//  3. Render (pkg/render): raster painting onto any pixel surface
//  4. Session (pkg/session): interactive editing with undo/redo
//  5. Codec (pkg/codec): the persisted JSON document
//  6. Vector (pkg/vector): resolution-independent report overlays
//  7. Photo (pkg/photo): photo and sidecar storage access
//  8. Suggest (pkg/suggest): vision-model draft marks
//
// Positions scale per axis while circle radii scale against the shorter
// surface dimension; that asymmetry is what keeps a mark over its subject
// and a circle circular on photos of any aspect ratio.
package photomark

import (
	"image"
	"io"

	"github.com/photomark/photomark/pkg/codec"
	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
	"github.com/photomark/photomark/pkg/photo"
	"github.com/photomark/photomark/pkg/render"
	"github.com/photomark/photomark/pkg/session"
	"github.com/photomark/photomark/pkg/vector"
)

// Version of the photomark library
const Version = "1.0.0"

// Engine bundles the annotation components behind one high-level interface.
type Engine struct {
	renderer *render.Renderer
}

// New creates an Engine with default rendering options.
func New() (*Engine, error) {
	return NewWithOptions(render.DefaultOptions())
}

// NewWithOptions creates an Engine with custom rendering options.
func NewWithOptions(opts render.Options) (*Engine, error) {
	r, err := render.NewWithOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{renderer: r}, nil
}

// Hydrate decodes a persisted annotation document. Nil, empty and malformed
// documents hydrate to the empty set.
func (e *Engine) Hydrate(doc []byte) mark.Set {
	return codec.Unmarshal(doc)
}

// Persist encodes a set into its persisted document.
func (e *Engine) Persist(set mark.Set) ([]byte, error) {
	return codec.Marshal(set)
}

// RenderOverlay paints the set onto a transparent overlay sized for the
// given surface. Returns nil while the surface has no dimensions.
func (e *Engine) RenderOverlay(s geometry.Surface, set mark.Set) image.Image {
	return e.renderer.Render(s, set)
}

// Annotate paints the set over a copy of the photo at full resolution.
func (e *Engine) Annotate(img image.Image, set mark.Set) image.Image {
	return e.renderer.RenderOver(img, set)
}

// AnnotatedThumbnail downsizes the photo and paints the set at thumbnail
// scale, so stroke widths and font sizes stay legible in a grid.
func (e *Engine) AnnotatedThumbnail(img image.Image, set mark.Set, maxW, maxH int) image.Image {
	return e.renderer.RenderOver(photo.Thumbnail(img, maxW, maxH), set)
}

// Edit opens an interactive session over a copy of the set.
func (e *Engine) Edit(set mark.Set) *session.Session {
	return session.New(set)
}

// ExportVector projects the set onto the fixed virtual canvas for report
// embedding. Empty sets export to nil.
func (e *Engine) ExportVector(set mark.Set) []vector.Primitive {
	return vector.Export(set)
}

// WriteSVG writes the set as a static SVG overlay. Empty sets write
// nothing.
func (e *Engine) WriteSVG(w io.Writer, set mark.Set) error {
	return vector.WriteSVG(w, vector.Export(set))
}
