package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/socialchef/dishcraft/internal/session"
)

func TestSessionMiddleware(t *testing.T) {
	opts := session.CookieOptions{Name: "dishcraft_session", TTL: time.Hour}
	existing := session.NewID()

	tests := []struct {
		name        string
		cookie      *http.Cookie
		wantNew     bool
		wantSession string
	}{
		{
			name:    "No cookie",
			wantNew: true,
		},
		{
			name:    "Malformed cookie",
			cookie:  &http.Cookie{Name: opts.Name, Value: "not-a-uuid"},
			wantNew: true,
		},
		{
			name:    "Other cookie only",
			cookie:  &http.Cookie{Name: "theme", Value: existing},
			wantNew: true,
		},
		{
			name:        "Valid cookie",
			cookie:      &http.Cookie{Name: opts.Name, Value: existing},
			wantSession: existing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			handler := SessionMiddleware(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetSessionID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if gotID == "" {
				t.Fatal("Expected a session ID in context")
			}

			cookies := rr.Result().Cookies()
			if tt.wantNew {
				if len(cookies) != 1 || cookies[0].Value != gotID {
					t.Errorf("Expected new cookie carrying %q, got %v", gotID, cookies)
				}
				if gotID == existing {
					t.Error("Expected a freshly generated ID")
				}
			} else {
				if len(cookies) != 0 {
					t.Errorf("Expected no Set-Cookie, got %v", cookies)
				}
				if gotID != tt.wantSession {
					t.Errorf("Expected session %q, got %q", tt.wantSession, gotID)
				}
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without session, got %d", rr.Code)
	}

	wrapped := SessionMiddleware(session.CookieOptions{Name: "s", TTL: time.Minute})(handler)
	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 with session, got %d", rr.Code)
	}
}
