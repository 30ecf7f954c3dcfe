package config

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Config holds the application configuration
type Config struct {
	Render  RenderConfig  `json:"render"`
	Export  ExportConfig  `json:"export"`
	Suggest SuggestConfig `json:"suggest"`
	Photo   PhotoConfig   `json:"photo"`
}

// RenderConfig holds defaults for painting marks
type RenderConfig struct {
	Palette            []string `json:"palette"`
	DefaultColor       string   `json:"default_color"`
	DefaultStrokeWidth float64  `json:"default_stroke_width"`
	DefaultFontSize    float64  `json:"default_font_size"`
	ArrowheadLength    float64  `json:"arrowhead_length"`
}

// ExportConfig holds configuration for the report overlay export
type ExportConfig struct {
	Quality  int  `json:"quality"`
	Lossless bool `json:"lossless"`
}

// SuggestConfig holds configuration for vision-assisted suggestions
type SuggestConfig struct {
	URL            string  `json:"url"`
	Model          string  `json:"model"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	MinConfidence  float64 `json:"min_confidence"`
	MaxSendDim     int     `json:"max_send_dim"`
}

// PhotoConfig holds configuration for the photo provider
type PhotoConfig struct {
	SidecarSuffix string `json:"sidecar_suffix"`
	ThumbWidth    int    `json:"thumb_width"`
	ThumbHeight   int    `json:"thumb_height"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Palette:            []string{"#FF0000", "#FFCC00", "#00AAFF", "#00CC44", "#FFFFFF", "#000000"},
			DefaultColor:       "#FF0000",
			DefaultStrokeWidth: 2,
			DefaultFontSize:    16,
			ArrowheadLength:    14,
		},
		Export: ExportConfig{
			Quality:  90,
			Lossless: false,
		},
		Suggest: SuggestConfig{
			URL:            "http://localhost:11434",
			Model:          "openbmb/minicpm-v4.5",
			TimeoutSeconds: 300,
			MinConfidence:  0.4,
			MaxSendDim:     1536,
		},
		Photo: PhotoConfig{
			SidecarSuffix: ".marks.json",
			ThumbWidth:    400,
			ThumbHeight:   400,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Render.DefaultStrokeWidth <= 0 {
		return fmt.Errorf("render.default_stroke_width must be positive")
	}

	if c.Render.DefaultFontSize <= 0 {
		return fmt.Errorf("render.default_font_size must be positive")
	}

	if c.Render.ArrowheadLength <= 0 {
		return fmt.Errorf("render.arrowhead_length must be positive")
	}

	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("export.quality must be between 1 and 100")
	}

	if c.Suggest.TimeoutSeconds < 1 {
		return fmt.Errorf("suggest.timeout_seconds must be positive")
	}

	if c.Suggest.MinConfidence < 0 || c.Suggest.MinConfidence > 1 {
		return fmt.Errorf("suggest.min_confidence must be between 0 and 1")
	}

	if c.Photo.SidecarSuffix == "" {
		return fmt.Errorf("photo.sidecar_suffix cannot be empty")
	}

	if c.Photo.ThumbWidth < 1 || c.Photo.ThumbHeight < 1 {
		return fmt.Errorf("photo thumbnail dimensions must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "photomark", "config.json")
}
