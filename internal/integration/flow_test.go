// Package integration runs the dish flow end to end: HTTP router, session
// cookies, Redis-backed sessions and the Gemini SDK against a fake upstream.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/dishcraft/internal/api"
	"github.com/socialchef/dishcraft/internal/services/chef"
	"github.com/socialchef/dishcraft/internal/services/completion"
	"github.com/socialchef/dishcraft/internal/session"
)

const (
	brainstormReply = "Here are some ideas:\n\n1. Spinach Feta Omelette – 10 min | 🍳\n2. Greek Scramble – 8 min | 🥚\n3. Feta Spinach Pie – 40 min | 🥧\n\nEnjoy!"
	recipeReply     = "Greek Scramble. Whisk 4 eggs, wilt 2 cups of spinach in olive oil, stir in the eggs and crumble the feta over the top. Serve hot."
)

// fakeGemini answers generateContent calls and records the prompts it saw.
type fakeGemini struct {
	mu      sync.Mutex
	prompts []string
	fail    atomic.Bool
}

func (f *fakeGemini) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	prompt := req.Contents[0].Parts[0].Text
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.fail.Load() {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
		return
	}

	reply := brainstormReply
	if strings.HasPrefix(prompt, "Provide a detailed recipe") {
		reply = recipeReply
	}
	json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]string{{"text": reply}}},
			"finishReason": "STOP",
		}},
	})
}

type harness struct {
	upstream *fakeGemini
	redis    *miniredis.Miniredis
	app      *httptest.Server
	client   *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	upstream := &fakeGemini{}
	upstreamSrv := httptest.NewServer(upstream)
	t.Cleanup(upstreamSrv.Close)

	provider, err := completion.NewGeminiProvider(ctx, completion.GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    upstreamSrv.URL,
		HTTPClient: upstreamSrv.Client(),
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	store, closeStore, err := session.NewStore(ctx, "redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { closeStore() })

	svc, err := chef.NewService(chef.Options{
		Provider:         provider,
		Store:            store,
		BrainstormParams: completion.SamplingParams{Temperature: lo.ToPtr[float32](0.9)},
		RecipeParams:     completion.SamplingParams{Temperature: lo.ToPtr[float32](0.8)},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.NewServer(svc), api.RouterOptions{
		ServiceName:    "dishcraft-integration",
		Cookie:         session.CookieOptions{Name: "dishcraft_session", TTL: time.Hour},
		AllowedOrigins: []string{"*"},
	})
	app := httptest.NewServer(router)
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &harness{upstream: upstream, redis: mr, app: app, client: client}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.app.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *harness) post(t *testing.T, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.app.URL+"/", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestDishFlow_EndToEnd(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.post(t, url.Values{
		"ingredients": {"eggs, spinach, feta"},
		"style":       {"Mediterranean"},
		"num_options": {"3"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Greek Scramble – 8 min | 🥚")
	assert.NotContains(t, body, "Enjoy!")

	require.Len(t, h.upstream.seen(), 1)
	assert.Contains(t, h.upstream.seen()[0], "eggs, spinach, feta")
	assert.Contains(t, h.upstream.seen()[0], "3 distinct Mediterranean dish ideas")
	assert.Len(t, h.redis.Keys(), 1, "one session stored in redis")

	resp, body = h.get(t, "/recipe/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Whisk 4 eggs")

	require.Len(t, h.upstream.seen(), 2)
	assert.Contains(t, h.upstream.seen()[1], "'Greek Scramble'")
	assert.Contains(t, h.upstream.seen()[1], "eggs, spinach, feta")

	// The list survives the recipe fetch.
	resp, _ = h.get(t, "/recipe/0")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDishFlow_InvalidSelectionRedirects(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.get(t, "/recipe/0")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = h.post(t, url.Values{"ingredients": {"eggs"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, path := range []string{"/recipe/3", "/recipe/-1", "/recipe/x"} {
		resp, _ := h.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
	}
	assert.Len(t, h.upstream.seen(), 1)
}

func TestDishFlow_UpstreamRateLimited(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.post(t, url.Values{"ingredients": {"eggs"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	h.upstream.fail.Store(true)

	resp, body := h.get(t, "/recipe/0")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Contains(t, body, api.ProviderBanner)

	resp, body = h.post(t, url.Values{"ingredients": {"rice"}})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, api.ProviderBanner)

	// The earlier list is still selectable once the upstream recovers.
	h.upstream.fail.Store(false)
	resp, _ = h.get(t, "/recipe/2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDishFlow_JSONAPI(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Post(h.app.URL+"/api/dishes", "application/json",
		strings.NewReader(`{"ingredients":["eggs","spinach","feta"],"style":"Mediterranean","num_options":20}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dishes api.DishesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dishes))
	assert.Equal(t, 12, dishes.OptionCount)
	assert.Len(t, dishes.Dishes, 3)
	assert.Contains(t, h.upstream.seen()[0], "12 distinct Mediterranean")
}
