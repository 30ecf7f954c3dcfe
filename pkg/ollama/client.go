// Package ollama implements the vision client against an Ollama server.
package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/ollama/ollama/api"

	"github.com/photomark/photomark/pkg/client"
)

// defaultTimeout bounds a single model call when the caller's context has
// no deadline. Vision models on CPU are slow.
const defaultTimeout = 300 * time.Second

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
}

// NewClient creates a client for the Ollama server at the given URL. Any
// path component (like /api/chat) is stripped.
func NewClient(ollamaURL string) (*Client, error) {
	parsed, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Client{client: api.NewClient(base, http.DefaultClient)}, nil
}

// SimpleQuery sends a prompt with an image and returns the raw text reply.
func (c *Client) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	return c.chat(ctx, model, prompt, imgB64)
}

// AnalyzeImage sends a prompt with an image and parses the JSON reply into
// an Analysis. Unparseable replies degrade to a conservative fallback
// instead of an error; the caller treats low confidence as "nothing found".
func (c *Client) AnalyzeImage(ctx context.Context, model, prompt, imgB64 string) (*client.Analysis, error) {
	reply, err := c.chat(ctx, model, prompt, imgB64)
	if err != nil {
		return nil, err
	}
	if reply == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}
	return ParseAnalysis(reply), nil
}

func (c *Client) chat(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream: &streamFalse,
	}

	var content string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	return content, nil
}

// fallbackAnalysis is returned when the model reply cannot be parsed: a
// zero-confidence centered finding the suggester will discard.
func fallbackAnalysis(desc string) *client.Analysis {
	return &client.Analysis{
		Primary: client.Finding{
			Label:      "none",
			Confidence: 0,
			Box:        client.Box{X: 0.25, Y: 0.25, W: 0.5, H: 0.5},
		},
		Description: desc,
		Tags:        []string{"fallback"},
	}
}

// ParseAnalysis parses a model reply, stripping the decoration vision
// models like to add around their JSON.
func ParseAnalysis(raw string) *client.Analysis {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return fallbackAnalysis("model returned non-JSON response")
	}

	var result client.Analysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return fallbackAnalysis("no valid JSON found in response")
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
			return fallbackAnalysis("failed to parse model response")
		}
	}
	return &result
}

// sanitizeModelJSON removes code fences, comments and trailing commas.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reInlineComment.ReplaceAllString(raw, "")
	raw = reTrailingComma.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment   = regexp.MustCompile(`(?m)^\s*//.*$`)
	reInlineComment = regexp.MustCompile(`(?m)//.*$`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)
