package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieOptions describes the session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// NewID returns a fresh opaque session ID.
func NewID() string {
	return uuid.NewString()
}

// SetCookie stores the session ID in the browser for opts.TTL.
func SetCookie(w http.ResponseWriter, id string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(opts.TTL),
		MaxAge:   int(opts.TTL / time.Second),
	})
}

// IDFromRequest returns the session ID carried by the request, or "" when the
// cookie is missing or not a UUID.
func IDFromRequest(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}
