package handlers

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
)

// RouterConfig collects what the router needs to serve requests
type RouterConfig struct {
	Logger    zerolog.Logger
	Catalog   *service.CatalogService
	Quizzes   *service.QuizService
	CSRF      *security.CSRFGenerator
	Limiter   *security.RateLimiter
	Templates *template.Template
	// WebSocket serves GET /ws; it runs behind the learner middleware
	WebSocket http.Handler
}

// NewRouter wires every route onto a chi router
func NewRouter(cfg RouterConfig) http.Handler {
	mw := NewMiddleware(cfg.CSRF, cfg.Limiter)
	home := NewHomeHandler(cfg.Catalog, mw, cfg.Templates)
	quizzes := NewQuizHandler(cfg.Quizzes, mw, cfg.Templates)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)

	r.Group(func(r chi.Router) {
		r.Use(mw.Learner)

		r.Get("/", home.ShowHome)
		r.Get("/quiz", quizzes.ShowQuiz)
		r.Get("/quiz/state", quizzes.QuizState)
		r.Get("/quiz/results", quizzes.ShowResults)
		if cfg.WebSocket != nil {
			r.Method(http.MethodGet, "/ws", cfg.WebSocket)
		}

		r.Group(func(r chi.Router) {
			r.Use(mw.CSRFProtect)

			r.Post("/quiz/start/{topicID}", quizzes.StartQuiz)
			r.With(mw.RateLimit).Post("/quiz/submit", quizzes.SubmitAnswer)
			r.Post("/quiz/cancel", quizzes.CancelQuiz)
			r.Post("/quiz/restart", quizzes.RestartQuiz)
		})
	})

	return r
}
