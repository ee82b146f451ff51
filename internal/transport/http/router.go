package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig collects what NewRouter mounts. Metrics may be nil.
type RouterConfig struct {
	API            *API
	Ranking        *RankingStream
	Metrics        http.Handler
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api := cfg.API
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", api.Health)
		r.Post("/register", api.Register)
		r.Post("/login", api.Login)
		r.Get("/subjects", api.Subjects)
		r.Get("/ranking", api.Ranking)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(api.accounts, logger))
			r.Post("/generate-questions", api.GenerateQuestions)
			r.Post("/submit-quiz", api.SubmitQuiz)
			r.Get("/profile", api.Profile)
		})
	})

	if cfg.Ranking != nil {
		r.Get("/ws/ranking", cfg.Ranking.ServeWS)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
