package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/blackrubyde-web/adruby-sub008/internal/http/handlers"
	"github.com/blackrubyde-web/adruby-sub008/internal/middleware"
)

// NewRouter wires the HTTP surface: health, synchronous layout solving, the
// asynchronous creative job endpoints and the docs/metrics extras.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.I18N(app.Config.DefaultLocale, lookup),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Post("/v1/layout/solve", app.LayoutSolve)

	r.Route("/v1/creatives", func(r chi.Router) {
		r.Post("/", app.CreativesGenerate)
		r.Get("/{job_id}", app.CreativeStatus)
		r.Get("/{job_id}/assets", app.CreativeAssets)
		r.Get("/{job_id}/download", app.CreativeZip)
	})

	r.Get("/v1/metrics/summary", app.MetricsSummary)

	return r
}
