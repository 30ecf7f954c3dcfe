// Package client defines the vision-backend interface used for suggesting
// annotation marks, plus the result types backends return.
package client

import "context"

// Box is a normalized bounding box with coordinates in [0,1] range.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Finding is the primary issue located by the vision model.
type Finding struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Analysis is the complete response from the vision model.
type Analysis struct {
	Primary     Finding  `json:"primary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// VisionClient talks to a vision-capable model backend.
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	AnalyzeImage(ctx context.Context, model, prompt, imgB64 string) (*Analysis, error)
}
