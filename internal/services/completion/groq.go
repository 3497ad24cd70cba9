package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/socialchef/dishcraft/internal/httpclient"
	"github.com/socialchef/dishcraft/internal/metrics"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// GroqProvider implements Provider for Groq's OpenAI-compatible API
type GroqProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGroqProvider creates a new Groq completion provider
func NewGroqProvider(apiKey, model string) *GroqProvider {
	if model == "" {
		model = DefaultModels[ProviderGroq]
	}
	return &GroqProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: groqEndpoint,
		client:   httpclient.InstrumentedClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt to Groq's chat completions endpoint
func (p *GroqProvider) Complete(ctx context.Context, prompt string, params SamplingParams) (text string, err error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordCompletion(ctx, string(ProviderGroq), p.model, outcome(err), time.Since(startTime))
	}()

	text, err = p.complete(ctx, prompt, params)
	if err != nil {
		return "", ClassifyError(err, string(ProviderGroq))
	}
	return text, nil
}

func (p *GroqProvider) complete(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	req := chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if params.Temperature != nil {
		t := *params.Temperature
		req.Temperature = &t
	}
	if params.MaxOutputTokens > 0 {
		req.MaxTokens = params.MaxOutputTokens
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode groq request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(httpclient.WithCall(ctx, httpclient.Call{Provider: string(ProviderGroq), Model: p.model}), http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
