package completion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/socialchef/dishcraft/internal/httpclient"
	"github.com/socialchef/dishcraft/internal/metrics"
)

// OpenAIConfig configures an OpenAIProvider. BaseURL is only set in tests.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIProvider implements Provider with the OpenAI chat completions API
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI completion provider. SDK retries are
// disabled; RetryProvider owns retry policy.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultModels[ProviderOpenAI]
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpclient.InstrumentedClient
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{client: openai.NewClient(opts...), model: cfg.Model}
}

// Complete sends the prompt as a single user message
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, params SamplingParams) (text string, err error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordCompletion(ctx, string(ProviderOpenAI), p.model, outcome(err), time.Since(startTime))
	}()

	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if params.Temperature != nil {
		req.Temperature = openai.Float(float64(*params.Temperature))
	}
	if params.MaxOutputTokens > 0 {
		req.MaxCompletionTokens = openai.Int(int64(params.MaxOutputTokens))
	}

	resp, err := p.client.Chat.Completions.New(httpclient.WithCall(ctx, httpclient.Call{Provider: string(ProviderOpenAI), Model: p.model}), req)
	if err != nil {
		return "", ClassifyError(err, string(ProviderOpenAI))
	}
	if len(resp.Choices) == 0 {
		return "", ClassifyError(ErrEmptyResponse, string(ProviderOpenAI))
	}

	text = strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ClassifyError(ErrEmptyResponse, string(ProviderOpenAI))
	}
	return text, nil
}
