package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/photomark/photomark"
	"github.com/photomark/photomark/internal/config"
	"github.com/photomark/photomark/internal/utils"
	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
	"github.com/photomark/photomark/pkg/ollama"
	"github.com/photomark/photomark/pkg/photo"
	"github.com/photomark/photomark/pkg/render"
	"github.com/photomark/photomark/pkg/suggest"
)

func main() {
	var in, marks, outDir, ext, svgOut, sizeSpec, thumbSpec, cfgPath string
	var quality int
	var lossless bool
	var doSuggest, saveSuggest bool
	var model, url string
	var verbose bool

	flag.StringVar(&in, "in", "", "input photo path (jpg/png/webp)")
	flag.StringVar(&marks, "marks", "", "marks document path (default: sidecar next to the photo)")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&ext, "ext", "jpg", "annotated output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100, 0 = config default)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	flag.StringVar(&sizeSpec, "size", "", "also write the overlay alone as a transparent PNG, e.g. 1920x1080")
	flag.StringVar(&svgOut, "svg", "", "write the vector overlay SVG to this path")
	flag.StringVar(&thumbSpec, "thumb", "", "also write an annotated thumbnail, e.g. 400x400")
	flag.StringVar(&cfgPath, "config", "", "config file path (default: built-in defaults)")

	flag.BoolVar(&doSuggest, "suggest", false, "ask the vision model to suggest marks")
	flag.BoolVar(&saveSuggest, "save", false, "persist suggested marks to the marks document")
	flag.StringVar(&model, "model", "", "vision model name (default from config)")
	flag.StringVar(&url, "url", "", "vision server URL (default from config)")

	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if in == "" {
		log.Fatal().Msgf("usage: %s -in photo.jpg [-marks panel.marks.json] [-out outdir] [-thumb 400x400] [-svg overlay.svg] [-suggest]", filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading config")
		}
		if err := loaded.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid config")
		}
		cfg = loaded
	}
	if quality <= 0 {
		quality = cfg.Export.Quality
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal().Err(err).Msg("creating output directory")
	}

	engine, err := photomark.NewWithOptions(render.Options{
		ArrowheadLength:    cfg.Render.ArrowheadLength,
		DefaultStrokeWidth: cfg.Render.DefaultStrokeWidth,
		DefaultFontSize:    cfg.Render.DefaultFontSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("initializing engine")
	}

	img, err := photo.Load(in)
	if err != nil {
		log.Fatal().Err(err).Str("photo", in).Msg("loading photo")
	}
	b := img.Bounds()
	log.Info().Str("photo", in).Int("width", b.Dx()).Int("height", b.Dy()).Msg("photo loaded")

	if marks == "" {
		marks = utils.SidecarPath(in, cfg.Photo.SidecarSuffix)
	}
	var doc []byte
	if utils.FileExists(marks) {
		if doc, err = os.ReadFile(marks); err != nil {
			log.Warn().Err(err).Str("marks", marks).Msg("marks unreadable, starting empty")
		}
	}
	set := engine.Hydrate(doc)
	log.Info().Int("marks", set.Len()).Str("source", marks).Msg("marks hydrated")

	if doSuggest {
		set = suggestMarks(log, engine, cfg, set, img, model, url, marks, saveSuggest)
	}

	// Full-resolution annotated photo.
	outPath := utils.GenerateOutputFilename(in, outDir, "_annotated", strings.ToLower(ext))
	if err := photo.Save(engine.Annotate(img, set), outPath, ext, quality, lossless); err != nil {
		log.Fatal().Err(err).Msg("saving annotated photo")
	}
	log.Info().Str("path", outPath).Msg("annotated photo written")

	if thumbSpec != "" {
		tw, th, err := parseSize(thumbSpec)
		if err != nil {
			log.Fatal().Err(err).Str("thumb", thumbSpec).Msg("bad thumbnail size")
		}
		thPath := utils.GenerateOutputFilename(in, outDir, fmt.Sprintf("_thumb_%dx%d", tw, th), strings.ToLower(ext))
		if err := photo.Save(engine.AnnotatedThumbnail(img, set, tw, th), thPath, ext, quality, lossless); err != nil {
			log.Fatal().Err(err).Msg("saving thumbnail")
		}
		log.Info().Str("path", thPath).Msg("thumbnail written")
	}

	if sizeSpec != "" {
		ow, oh, err := parseSize(sizeSpec)
		if err != nil {
			log.Fatal().Err(err).Str("size", sizeSpec).Msg("bad overlay size")
		}
		overlay := engine.RenderOverlay(geometry.Surface{Width: ow, Height: oh}, set)
		ovPath := utils.GenerateOutputFilename(in, outDir, fmt.Sprintf("_overlay_%dx%d", ow, oh), "png")
		if err := photo.Save(overlay, ovPath, "png", quality, false); err != nil {
			log.Fatal().Err(err).Msg("saving overlay")
		}
		log.Info().Str("path", ovPath).Msg("overlay written")
	}

	if svgOut != "" {
		if set.IsEmpty() {
			log.Info().Msg("no marks, skipping vector overlay")
		} else {
			f, err := os.Create(svgOut)
			if err != nil {
				log.Fatal().Err(err).Msg("creating svg output")
			}
			err = engine.WriteSVG(f, set)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				log.Fatal().Err(err).Msg("writing svg overlay")
			}
			log.Info().Str("path", svgOut).Msg("vector overlay written")
		}
	}
}

// suggestMarks runs the vision model over the photo and merges accepted
// suggestions into the set via a regular edit session.
func suggestMarks(log zerolog.Logger, engine *photomark.Engine, cfg *config.Config, set mark.Set, img image.Image, model, url, marksPath string, persist bool) mark.Set {
	if model == "" {
		model = cfg.Suggest.Model
	}
	if url == "" {
		url = cfg.Suggest.URL
	}

	vc, err := ollama.NewClient(url)
	if err != nil {
		log.Fatal().Err(err).Msg("creating vision client")
	}
	opts := suggest.DefaultOptions()
	opts.MinConfidence = cfg.Suggest.MinConfidence
	opts.MaxSendDim = cfg.Suggest.MaxSendDim
	opts.Color = cfg.Render.DefaultColor
	opts.StrokeWidth = cfg.Render.DefaultStrokeWidth
	opts.FontSize = cfg.Render.DefaultFontSize
	sg := suggest.NewWithOptions(vc, model, opts)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Suggest.TimeoutSeconds)*time.Second)
	defer cancel()

	drafts, analysis, err := sg.Suggest(ctx, img)
	if err != nil {
		log.Fatal().Err(err).Msg("suggestion failed")
	}
	if analysis != nil {
		log.Info().
			Str("label", analysis.Primary.Label).
			Float64("confidence", analysis.Primary.Confidence).
			Str("description", analysis.Description).
			Msg("vision analysis")
	}
	if drafts.IsEmpty() {
		log.Info().Msg("no confident suggestion")
		return set
	}

	edit := engine.Edit(set)
	edit.Apply(drafts)
	merged := edit.Save()
	log.Info().Int("added", drafts.Len()).Msg("suggestions applied")

	if persist {
		doc, err := engine.Persist(merged)
		if err != nil {
			log.Fatal().Err(err).Msg("encoding marks")
		}
		if err := os.WriteFile(marksPath, doc, 0644); err != nil {
			log.Fatal().Err(err).Msg("saving marks")
		}
		log.Info().Str("path", marksPath).Msg("marks saved")
	}
	return merged
}

// parseSize parses a WxH specification like "400x300".
func parseSize(spec string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(spec), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WxH, got %q", spec)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("dimensions must be positive: %q", spec)
	}
	return w, h, nil
}
