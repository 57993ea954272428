package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"quickquiz/internal/quiz"
)

type RouterOptions struct {
	// LogBodyBytes caps the response preview logged at debug level.
	LogBodyBytes int
}

func NewRouter(service *quiz.Service, log zerolog.Logger, opts RouterOptions) http.Handler {
	api := NewAPI(service, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log, opts.LogBodyBytes))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		allowed := http.MethodGet
		if r.URL.Path == "/api/score" {
			allowed = http.MethodPost
		}
		writeMethodNotAllowed(w, allowed)
	})

	r.Get("/healthz", api.HandleHealth)

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Get("/questions", api.HandleQuestions)
		apiRouter.Get("/answers/{id}", api.HandleAnswer)
		apiRouter.Post("/score", api.HandleScore)
	})

	return r
}
