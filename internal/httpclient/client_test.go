package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallFromContext(t *testing.T) {
	_, ok := CallFromContext(context.Background())
	assert.False(t, ok)

	call, ok := CallFromContext(WithCall(context.Background(), Call{Provider: "groq", Model: "llama"}))
	require.True(t, ok)
	assert.Equal(t, Call{Provider: "groq", Model: "llama"}, call)
}

func TestSpanName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://api.example.test/v1beta/models/gemini:generateContent?key=secret", nil)
	assert.Equal(t, "POST /v1beta/models/gemini:generateContent", spanName("", req))

	req = req.WithContext(WithCall(req.Context(), Call{Provider: "gemini"}))
	assert.Equal(t, "gemini POST /v1beta/models/gemini:generateContent", spanName("", req))
}

func TestNewInstrumentedClient(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewInstrumentedClient(0).Timeout)
	assert.Equal(t, 5*time.Second, NewInstrumentedClient(5*time.Second).Timeout)
}

func TestInstrumentedClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewInstrumentedClient(time.Second)
	ctx := WithCall(context.Background(), Call{Provider: "groq", Model: "llama"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestInstrumentedClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewInstrumentedClient(time.Second)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	assert.Error(t, err)
}
