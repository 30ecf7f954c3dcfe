// Package photo supplies photos and their persisted annotation documents to
// the annotation engine. The engine core never touches storage; everything
// it sees comes through a Provider.
package photo

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/photomark/photomark/internal/utils"
)

// DefaultSidecarSuffix is the filename suffix of the annotation document
// stored next to a photo.
const DefaultSidecarSuffix = ".marks.json"

// Provider hands out a photo and its persisted annotation document, and
// accepts an updated document on save. The document may be nil when the
// photo has never been annotated; callers hydrate it through pkg/codec,
// which treats nil as the empty set.
type Provider interface {
	Photo(ctx context.Context, id string) (image.Image, []byte, error)
	SaveMarks(ctx context.Context, id string, doc []byte) error
}

// Dir is a Provider over a directory tree of photos with sidecar annotation
// documents. Photo IDs are paths relative to the root.
type Dir struct {
	root   string
	suffix string
	log    zerolog.Logger
}

// NewDir creates a directory provider with the default sidecar suffix and
// no logging.
func NewDir(root string) *Dir {
	return &Dir{root: root, suffix: DefaultSidecarSuffix, log: zerolog.Nop()}
}

// WithLogger sets the provider's logger and returns it.
func (d *Dir) WithLogger(log zerolog.Logger) *Dir {
	d.log = log
	return d
}

// WithSidecarSuffix overrides the sidecar suffix and returns the provider.
func (d *Dir) WithSidecarSuffix(suffix string) *Dir {
	if suffix != "" {
		d.suffix = suffix
	}
	return d
}

// Photo loads a photo and its annotation document. A missing or unreadable
// sidecar is not an error: annotations are optional, so the photo is
// returned with a nil document and the problem is only logged.
func (d *Dir) Photo(ctx context.Context, id string) (image.Image, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	path := filepath.Join(d.root, filepath.FromSlash(id))
	img, err := Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load photo %s: %w", id, err)
	}

	doc, err := os.ReadFile(utils.SidecarPath(path, d.suffix))
	if err != nil {
		if !os.IsNotExist(err) {
			d.log.Warn().Err(err).Str("photo", id).Msg("marks sidecar unreadable, treating as unannotated")
		}
		return img, nil, nil
	}
	return img, doc, nil
}

// SaveMarks writes the annotation document to the photo's sidecar.
func (d *Dir) SaveMarks(ctx context.Context, id string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := utils.SidecarPath(filepath.Join(d.root, filepath.FromSlash(id)), d.suffix)
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("save marks for %s: %w", id, err)
	}
	d.log.Debug().Str("photo", id).Int("bytes", len(doc)).Msg("marks saved")
	return nil
}

// List returns the IDs of all photos under the provider's root.
func (d *Dir) List() ([]string, error) {
	files, err := utils.ListImageFiles(d.root)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	ids := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(d.root, f)
		if err != nil {
			continue
		}
		ids = append(ids, filepath.ToSlash(rel))
	}
	return ids, nil
}

// Load reads an image from disk. Decoding goes through the registered
// decoders first, with an explicit WebP fallback for files the standard
// chain rejects.
func Load(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// Save writes an image in the given format. Quality applies to jpg and
// webp; lossless to webp only.
func Save(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// Thumbnail downscales a photo for grid display. The whole photo is kept
// (fit, not fill) so percent-coordinate marks stay over their subject.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	if img == nil || maxWidth <= 0 || maxHeight <= 0 {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
