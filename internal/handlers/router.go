package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"lingofolio/internal/security"
)

// Router bundles the handlers served by the API
type Router struct {
	Health    *HealthHandler
	Words     *WordsHandler
	Practice  *PracticeHandler
	Reference *ReferenceHandler
	Contact   *ContactHandler
	Uploads   *UploadHandler

	// ContactLimiter throttles contact form submissions per client IP
	ContactLimiter *security.RateLimiter
	Logger         *zap.Logger
}

// Handler builds the chi router
func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(rt.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", rt.Health.Live)
	r.Get("/readyz", rt.Health.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireReady)

		r.Route("/words", rt.Words.Routes)
		r.Route("/practice", rt.Practice.Routes)
		r.Route("/verbs", rt.Reference.VerbRoutes)
		r.Route("/grammar", rt.Reference.GrammarRoutes)
		r.Route("/notebook", rt.Reference.NotebookRoutes)

		// Stored messages are read with the backup CLI, never over HTTP.
		r.Route("/contact", func(r chi.Router) {
			if rt.ContactLimiter != nil {
				r.With(rt.ContactLimiter.Middleware(TooManyRequests)).Post("/", rt.Contact.Submit)
			} else {
				r.Post("/", rt.Contact.Submit)
			}
		})
		r.Post("/uploads", rt.Uploads.Upload)
	})

	return r
}

// BootHandler serves the probes while the database and services are still coming up. Every
// other route answers 503.
func BootHandler(logger *zap.Logger) http.Handler {
	health := NewHealthHandler(nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logging(logger))
	r.Get("/healthz", health.Live)
	r.Get("/readyz", health.Ready)
	r.NotFound(RequireReady(http.NotFoundHandler()).ServeHTTP)
	return r
}
