package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vocabquiz/internal/catalog"
	"vocabquiz/internal/quiz"
	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
)

// QuizHandler serves the quiz and result pages
type QuizHandler struct {
	quizzes    *service.QuizService
	middleware *Middleware
	templates  *template.Template
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizzes *service.QuizService, middleware *Middleware, templates *template.Template) *QuizHandler {
	return &QuizHandler{
		quizzes:    quizzes,
		middleware: middleware,
		templates:  templates,
	}
}

// SubmitResponse is the JSON body returned for an answer
type SubmitResponse struct {
	Accepted bool           `json:"accepted"`
	Feedback *quiz.Feedback `json:"feedback,omitempty"`
	Snapshot quiz.Snapshot  `json:"snapshot"`
}

// StartQuiz begins a quiz on the topic in the URL and redirects to it
func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())
	topicID := chi.URLParam(r, "topicID")

	snap, err := h.quizzes.Start(r.Context(), learnerID, topicID)
	switch {
	case errors.Is(err, catalog.ErrTopicNotFound):
		respondWithError(w, r, http.StatusNotFound, ErrTopicNotFound, "", err)
		return
	case errors.Is(err, quiz.ErrEmptyTopic):
		respondWithError(w, r, http.StatusUnprocessableEntity, "Topic has no questions", "", err)
		return
	case err != nil:
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "failed to start quiz", err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("topic_id", topicID).
		Str("session_id", snap.SessionID).
		Int("questions", snap.Total).
		Msg("quiz started")
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// ShowQuiz renders the active quiz, or sends the learner where they belong
// when there is none or it has finished
func (h *QuizHandler) ShowQuiz(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())

	snap, err := h.quizzes.Snapshot(learnerID)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if snap.State == quiz.StateCompleted {
		http.Redirect(w, r, "/quiz/results", http.StatusSeeOther)
		return
	}

	layout := Layout{
		Title:     snap.TopicTitle,
		CSRFToken: h.middleware.csrfToken(r),
		ShowHome:  true,
	}
	render(w, r, h.templates, "quiz.tmpl", newQuizViewData(layout, snap))
}

// SubmitAnswer grades the answer form field. Submissions the session
// ignores come back with accepted set to false.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	answer := r.FormValue("answer")
	if err := validateAnswer(answer); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "invalid answer", err)
		return
	}

	fb, snap, accepted, err := h.quizzes.Submit(learnerID, answer)
	if errors.Is(err, service.ErrNoActiveQuiz) {
		respondWithError(w, r, http.StatusNotFound, ErrNoActiveQuiz, "", err)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "failed to submit answer", err)
		return
	}

	resp := SubmitResponse{Accepted: accepted, Snapshot: snap}
	if accepted {
		resp.Feedback = &fb
	}
	respondWithJSON(w, r, http.StatusOK, resp)
}

// QuizState returns the active session snapshot as JSON
func (h *QuizHandler) QuizState(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())

	snap, err := h.quizzes.Snapshot(learnerID)
	if err != nil {
		respondWithError(w, r, http.StatusNotFound, ErrNoActiveQuiz, "", err)
		return
	}
	respondWithJSON(w, r, http.StatusOK, snap)
}

// CancelQuiz abandons the learner's quiz, including finished results, and
// returns to the selection page
func (h *QuizHandler) CancelQuiz(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())
	h.quizzes.Cancel(learnerID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowResults renders the report of a completed quiz
func (h *QuizHandler) ShowResults(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())

	report, topic, err := h.quizzes.Results(learnerID)
	switch {
	case errors.Is(err, service.ErrQuizInProgress):
		http.Redirect(w, r, "/quiz", http.StatusSeeOther)
		return
	case err != nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := ResultsViewData{
		Layout: Layout{
			Title:     "Results: " + topic.Title,
			CSRFToken: h.middleware.csrfToken(r),
			ShowHome:  true,
		},
		Topic:  topic,
		Report: report,
	}
	render(w, r, h.templates, "results.tmpl", data)
}

// RestartQuiz starts a fresh quiz over the learner's last topic
func (h *QuizHandler) RestartQuiz(w http.ResponseWriter, r *http.Request) {
	learnerID, _ := security.LearnerFromContext(r.Context())

	if _, err := h.quizzes.Restart(r.Context(), learnerID); err != nil {
		if errors.Is(err, service.ErrNoActiveQuiz) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "failed to restart quiz", err)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// Healthz reports that the server is up
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
