package middleware

import (
	"context"
	"net/http"

	"github.com/socialchef/dishcraft/internal/session"
)

type contextKey string

const SessionIDKey contextKey = "sessionID"

// SessionMiddleware makes sure every request carries a session ID. Visitors
// without a valid session cookie get a new one.
func SessionMiddleware(opts session.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.IDFromRequest(r, opts.Name)
			if id == "" {
				id = session.NewID()
				session.SetCookie(w, id, opts)
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the session ID from request context
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}

// RequireSession is a helper that returns 401 if no session ID in context
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionID(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
