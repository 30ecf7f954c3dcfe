// Package suggest proposes annotation marks by asking a vision model to
// locate the most prominent electrical issue in a photo. Suggestions are
// drafts: the editor applies them through a normal edit session where they
// stay undoable, and nothing is persisted without an explicit save.
package suggest

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/disintegration/imaging"

	"github.com/photomark/photomark/pkg/client"
	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
)

// DefaultPrompt asks the model for one normalized finding box.
const DefaultPrompt = `You are an electrical-installation inspection assistant looking at a single photo.

Return JSON only:
{
  "primary": {
    "label": "string",
    "confidence": 0.0,
    "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}
  },
  "description": "short neutral sentence (<= 20 words)",
  "tags": ["tag1", "tag2", "tag3"]
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- The box should tightly include the most safety-relevant visible issue
  (exposed conductors, scorching, corrosion, missing covers, improvised
  wiring); else the main electrical component in the photo.
- label: short lowercase noun phrase naming the issue or component.
- If nothing electrical is visible, return confidence 0.0 and label "none".
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Options configures a Suggester.
type Options struct {
	// MinConfidence discards findings the model is unsure about.
	MinConfidence float64
	// MaxSendDim bounds the long side of the image sent to the model, in
	// pixels. Zero sends the original.
	MaxSendDim int
	// SendQuality is the JPEG quality of the image sent to the model.
	SendQuality int
	// Style applied to suggested marks.
	Color       string
	StrokeWidth float64
	FontSize    float64
}

// DefaultOptions returns the suggestion defaults.
func DefaultOptions() Options {
	return Options{
		MinConfidence: 0.4,
		MaxSendDim:    1536,
		SendQuality:   85,
		Color:         "#FF0000",
		StrokeWidth:   2,
		FontSize:      16,
	}
}

// Suggester turns vision-model findings into draft marks.
type Suggester struct {
	client client.VisionClient
	model  string
	opts   Options
}

// New creates a Suggester using the given backend and model name.
func New(vc client.VisionClient, model string) *Suggester {
	return NewWithOptions(vc, model, DefaultOptions())
}

// NewWithOptions creates a Suggester with custom options.
func NewWithOptions(vc client.VisionClient, model string, opts Options) *Suggester {
	def := DefaultOptions()
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = def.MinConfidence
	}
	if opts.SendQuality <= 0 {
		opts.SendQuality = def.SendQuality
	}
	if opts.Color == "" {
		opts.Color = def.Color
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = def.StrokeWidth
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	return &Suggester{client: vc, model: model, opts: opts}
}

// Suggest asks the model about the photo and returns draft marks: a circle
// around the finding and a text label above it. The set is empty when the
// model finds nothing it is confident about. The analysis is returned for
// logging and review.
func (s *Suggester) Suggest(ctx context.Context, img image.Image) (mark.Set, *client.Analysis, error) {
	if img == nil {
		return mark.Empty(), nil, fmt.Errorf("nil image")
	}

	b64, err := encodeForModel(img, s.opts.MaxSendDim, s.opts.SendQuality)
	if err != nil {
		return mark.Empty(), nil, fmt.Errorf("prepare image: %w", err)
	}

	analysis, err := s.client.AnalyzeImage(ctx, s.model, DefaultPrompt, b64)
	if err != nil {
		return mark.Empty(), nil, err
	}

	if analysis.Primary.Confidence < s.opts.MinConfidence || analysis.Primary.Label == "none" {
		return mark.Empty(), analysis, nil
	}

	bounds := img.Bounds()
	surf := geometry.Surface{Width: bounds.Dx(), Height: bounds.Dy()}
	return s.marksFor(analysis.Primary, surf), analysis, nil
}

// marksFor converts a normalized finding box into an enclosing circle plus
// a label anchored above it, in percent coordinates.
func (s *Suggester) marksFor(f client.Finding, surf geometry.Surface) mark.Set {
	box := clampBox(f.Box)
	center := geometry.Point{
		X: (box.X + box.W/2) * 100,
		Y: (box.Y + box.H/2) * 100,
	}

	// Enclosing circle: half the box diagonal in pixels, with a little
	// margin, normalized per the uniform radius rule.
	halfDiag := 0.5 * math.Hypot(box.W*float64(surf.Width), box.H*float64(surf.Height))
	radius := geometry.RadiusFromPixels(halfDiag*1.1, surf)

	set := mark.Set{
		Circles: []mark.Circle{{
			ID:          mark.NewID("circle"),
			Center:      center,
			Radius:      radius,
			Color:       s.opts.Color,
			StrokeWidth: s.opts.StrokeWidth,
		}},
	}

	if f.Label != "" {
		labelY := box.Y*100 - 3
		if labelY < 2 {
			labelY = 2
		}
		set.Texts = []mark.Text{{
			ID:       mark.NewID("text"),
			Position: geometry.Point{X: center.X, Y: labelY},
			Content:  f.Label,
			Color:    s.opts.Color,
			FontSize: s.opts.FontSize,
		}}
	}
	return set
}

// clampBox constrains a finding box to the unit square.
func clampBox(b client.Box) client.Box {
	x := clamp01(b.X)
	y := clamp01(b.Y)
	w := clamp01(b.W)
	h := clamp01(b.H)
	if x+w > 1 {
		w = 1 - x
	}
	if y+h > 1 {
		h = 1 - y
	}
	return client.Box{X: x, Y: y, W: w, H: h}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// encodeForModel downsizes the photo and encodes it as base64 JPEG for the
// vision backend.
func encodeForModel(img image.Image, maxDim, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
