package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"fakepost/internal/http/handlers"
	"fakepost/internal/middleware"
)

// Options configures the cross-cutting middleware around the handlers.
type Options struct {
	Logger          zerolog.Logger
	CORSOrigins     []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/generate", func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		r.Post("/post-text", app.PostText)
		r.Post("/profile-picture", app.ProfilePicture)
		r.Post("/post-media", app.PostMedia)
		r.Post("/post-audio", app.PostAudio)
		r.Post("/comments", app.Comments)
		r.Post("/random-post", app.RandomPost)
	})

	r.Route("/v1/sessions/{id}", func(r chi.Router) {
		r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/comments", app.SessionComments)
		r.Get("/comments", app.SessionSnapshot)
	})

	r.Route("/v1/templates", func(r chi.Router) {
		r.Get("/{slot}", app.LoadTemplate)
		r.Put("/{slot}", app.SaveTemplate)
	})

	return r
}
