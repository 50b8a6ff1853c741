// Package gemini provides text generation backed by the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-2.0-flash"

// DefaultRequestsPerMinute keeps usage inside the free-tier quota
const DefaultRequestsPerMinute = 15

// ErrEmptyResponse is returned when the model answers without any text part
var ErrEmptyResponse = errors.New("gemini returned no content")

// generator is the subset of the genai models API the client calls
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds the client settings
type Config struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
}

// Client wraps a genai client with a request rate limit
type Client struct {
	models  generator
	limiter *rate.Limiter
	model   string
	log     zerolog.Logger
}

// NewClient creates a Gemini client using the Gemini API backend
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newClient(gc.Models, cfg, log), nil
}

func newClient(models generator, cfg Config, log zerolog.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}
	return &Client{
		models:  models,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		model:   model,
		log:     log.With().Str("client", "gemini").Str("model", model).Logger(),
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Generate sends a single prompt with a system instruction and returns the
// first text part of the first candidate.
func (c *Client) Generate(ctx context.Context, system, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	if cfg == nil {
		cfg = &genai.GenerateContentConfig{}
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	c.log.Debug().Dur("elapsed", time.Since(start)).Msg("Generated content")

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
