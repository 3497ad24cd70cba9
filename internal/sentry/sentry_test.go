package sentry

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddleware_RecoversPanic(t *testing.T) {
	h := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sentry.GetHubFromContext(r.Context()) == nil {
			t.Error("Expected a hub on the request context")
		}
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/recipe/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHTTPMiddleware_KeepsSentStatus(t *testing.T) {
	h := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "partial", rr.Body.String())
}

func TestDropOperational(t *testing.T) {
	event := &sentry.Event{Message: "x"}

	tests := []struct {
		name string
		err  error
		drop bool
	}{
		{"provider outage", apperrors.NewProviderError("down", "BRAINSTORM_FAILED", errors.New("503")), true},
		{"wrapped selection", fmt.Errorf("recipe: %w", apperrors.NewInvalidSelectionError("bad", "INVALID_INDEX")), true},
		{"internal", apperrors.NewInternalError("store", "SESSION_STORE", errors.New("eof")), false},
		{"plain", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dropOperational(event, &sentry.EventHint{OriginalException: tt.err})
			if tt.drop {
				assert.Nil(t, got)
			} else {
				assert.Same(t, event, got)
			}
		})
	}

	assert.Same(t, event, dropOperational(event, nil))
}
