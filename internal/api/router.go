package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"github.com/samber/lo"
	"github.com/socialchef/dishcraft/internal/middleware"
	"github.com/socialchef/dishcraft/internal/sentry"
	"github.com/socialchef/dishcraft/internal/session"
	"go.opentelemetry.io/otel"
)

// RouterOptions wires a Server into an HTTP handler.
type RouterOptions struct {
	ServiceName    string
	Cookie         session.CookieOptions
	AllowedOrigins []string
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(s *Server, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware(opts.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(opts.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)

	r.Get("/health", s.HandleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(opts.Cookie))
		r.Use(middleware.RequireSession)

		r.Get("/", s.HandleIndex)
		r.With(chimiddleware.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data")).
			Post("/", s.HandleBrainstorm)
		r.Get("/recipe/{dish_index}", s.HandleRecipe)

		r.Route("/api", func(r chi.Router) {
			// No origins means same-origin only. Cookies never go to a wildcard.
			if len(opts.AllowedOrigins) > 0 {
				r.Use(cors.Handler(cors.Options{
					AllowedOrigins:   opts.AllowedOrigins,
					AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
					AllowedHeaders:   []string{"Accept", "Content-Type"},
					AllowCredentials: !lo.Contains(opts.AllowedOrigins, "*"),
				}))
			}
			r.Post("/dishes", s.HandleDishesAPI)
			r.Get("/recipe/{dish_index}", s.HandleRecipeAPI)
		})
	})

	return r
}
