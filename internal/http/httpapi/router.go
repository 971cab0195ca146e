package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"jobpilot/internal/http/handlers"
	"jobpilot/internal/middleware"
)

// Options configures the cross-cutting middleware around the API.
type Options struct {
	AllowedOrigins []string
	CountryLookup  middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.Geo(opts.CountryLookup),
	)

	r.Get("/api/health", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(app.JWTSecret))

		r.Post("/auth/register", app.Register)
		r.Post("/auth/login", app.Login)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/", app.GetUser)
			r.Get("/cvs", app.ListCVs)
			r.Get("/cvs/export", app.ExportCVs)
			r.Get("/job-preferences", app.GetPreferences)
			r.Post("/job-preferences", app.SavePreferences)
			r.Get("/applications", app.ListApplications)
			r.Get("/stats", app.Stats)
		})

		r.Post("/cvs/upload", app.UploadCV)
		r.Delete("/cvs/{cvId}", app.DeleteCV)

		r.Patch("/applications/{applicationId}/status", app.UpdateApplicationStatus)

		r.Post("/jobs/search", app.SearchJobs)
		r.Post("/jobs/auto-apply", app.AutoApply)
	})

	return r
}
