package api

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"github.com/socialchef/dishcraft/internal/logger"
	"github.com/socialchef/dishcraft/internal/middleware"
	"github.com/socialchef/dishcraft/internal/sentry"
	"github.com/socialchef/dishcraft/internal/services/chef"
	"github.com/socialchef/dishcraft/internal/session"
)

// Chef is the dish flow the handlers drive.
type Chef interface {
	Brainstorm(ctx context.Context, sessionID string, req chef.BrainstormRequest) (*chef.BrainstormResult, error)
	Recipe(ctx context.Context, sessionID string, index int) (*chef.RecipeResult, error)
	State(ctx context.Context, sessionID string) (*session.State, error)
}

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	chef  Chef
	pages map[string]*template.Template
}

func NewServer(c Chef) *Server {
	return &Server{
		chef:  c,
		pages: parsePages("index.html", "dishes.html", "recipe.html"),
	}
}

func parsePages(names ...string) map[string]*template.Template {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		pages[name] = template.Must(template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return pages
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages[page].ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("Failed to render page",
			"page", page,
			"error", err,
			logger.WithTraceContext(r.Context()))
	}
}

// sessionID returns the ID set by the session middleware.
func sessionID(r *http.Request) string {
	id, _ := middleware.GetSessionID(r.Context())
	return id
}

// setRetryAfter copies an AppError's retry hint onto the response.
func setRetryAfter(w http.ResponseWriter, appErr *apperrors.AppError) {
	if appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
	}
}

// toAppError normalizes any handler error and reports unexpected ones.
func toAppError(r *http.Request, err error) *apperrors.AppError {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("unexpected error", "INTERNAL", err)
	}
	if !appErr.IsOperational {
		slog.Error("Request failed",
			"path", r.URL.Path,
			"error", err,
			logger.WithTraceContext(r.Context()))
		sentry.CaptureError(r.Context(), err)
	}
	return appErr
}

type errorResponse struct {
	Error *apperrors.AppError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(r, err)
	setRetryAfter(w, appErr)
	writeJSON(w, appErr.StatusCode, errorResponse{Error: appErr})
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
