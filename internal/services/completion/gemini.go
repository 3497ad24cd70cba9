package completion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/socialchef/dishcraft/internal/httpclient"
	"github.com/socialchef/dishcraft/internal/logger"
	"github.com/socialchef/dishcraft/internal/metrics"
	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiProvider. BaseURL is only set in tests.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiProvider implements Provider with the Google Gemini API
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini completion provider
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModels[ProviderGemini]
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpclient.InstrumentedClient
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

// Complete generates text with Gemini's generateContent endpoint
func (p *GeminiProvider) Complete(ctx context.Context, prompt string, params SamplingParams) (text string, err error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordCompletion(ctx, string(ProviderGemini), p.model, outcome(err), time.Since(startTime))
	}()

	config := &genai.GenerateContentConfig{}
	if params.Temperature != nil {
		config.Temperature = genai.Ptr(*params.Temperature)
	}
	if params.MaxOutputTokens > 0 {
		config.MaxOutputTokens = params.MaxOutputTokens
	}

	resp, err := p.client.Models.GenerateContent(
		httpclient.WithCall(ctx, httpclient.Call{Provider: string(ProviderGemini), Model: p.model}),
		p.model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", ClassifyError(err, string(ProviderGemini))
	}

	text = strings.TrimSpace(resp.Text())
	if text == "" {
		reason := ""
		if len(resp.Candidates) > 0 {
			reason = string(resp.Candidates[0].FinishReason)
		}
		slog.Warn("Gemini returned no text",
			"model", p.model,
			"finish_reason", reason,
			logger.WithTraceContext(ctx))
		return "", ClassifyError(ErrEmptyResponse, string(ProviderGemini))
	}
	return text, nil
}
