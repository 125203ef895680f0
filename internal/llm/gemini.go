package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careerpath/advisor/internal/models"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiGenerator.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature *float32
	// BaseURL overrides the API endpoint; empty uses the public Gemini API.
	BaseURL string
}

// GeminiGenerator answers questions with a Gemini model.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature *float32
	logger      *zap.Logger
}

// GeminiOption configures a GeminiGenerator.
type GeminiOption func(*GeminiGenerator)

// WithLogger sets a logger for request debug output.
func WithLogger(l *zap.Logger) GeminiOption {
	return func(g *GeminiGenerator) { g.logger = l }
}

// NewGemini creates a Gemini client. It does not contact the API.
func NewGemini(ctx context.Context, cfg GeminiConfig, opts ...GeminiOption) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: model name is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g := &GeminiGenerator{
		client:      client,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate sends one prompt built from question and chunks. No retries.
func (g *GeminiGenerator) Generate(ctx context.Context, question string, chunks []models.Chunk) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	var genCfg *genai.GenerateContentConfig
	if g.temperature != nil {
		genCfg = &genai.GenerateContentConfig{Temperature: g.temperature}
	}
	prompt := BuildPrompt(question, chunks)
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	g.logger.Debug("gemini response",
		zap.String("model", g.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("answer_chars", len(text)),
		zap.Duration("duration", time.Since(start)))
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}
