package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero stroke", func(c *Config) { c.Render.DefaultStrokeWidth = 0 }},
		{"zero font", func(c *Config) { c.Render.DefaultFontSize = 0 }},
		{"zero arrowhead", func(c *Config) { c.Render.ArrowheadLength = 0 }},
		{"quality too low", func(c *Config) { c.Export.Quality = 0 }},
		{"quality too high", func(c *Config) { c.Export.Quality = 101 }},
		{"zero timeout", func(c *Config) { c.Suggest.TimeoutSeconds = 0 }},
		{"confidence above one", func(c *Config) { c.Suggest.MinConfidence = 1.5 }},
		{"empty suffix", func(c *Config) { c.Photo.SidecarSuffix = "" }},
		{"zero thumb", func(c *Config) { c.Photo.ThumbWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	orig := Default()
	orig.Render.DefaultColor = "#00FF00"
	orig.Suggest.Model = "test-model"

	if err := orig.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Render.DefaultColor != "#00FF00" {
		t.Errorf("color did not round trip: %q", loaded.Render.DefaultColor)
	}
	if loaded.Suggest.Model != "test-model" {
		t.Errorf("model did not round trip: %q", loaded.Suggest.Model)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("round-tripped config invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing config")
	}
}
