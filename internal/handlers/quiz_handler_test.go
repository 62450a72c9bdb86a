package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabquiz/internal/catalog"
	"vocabquiz/internal/models"
	"vocabquiz/internal/quiz"
	"vocabquiz/internal/quiz/quiztest"
	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
	"vocabquiz/internal/templates"
)

const testLearner = "0b7e6c1e-3f55-4a61-9a39-4f0c1b0e2d11"

type testApp struct {
	router  http.Handler
	sched   *quiztest.ManualScheduler
	csrf    *security.CSRFGenerator
	quizzes *service.QuizService
}

func testTopics() []models.Topic {
	return []models.Topic{
		{
			ID: "animals", Title: "Animals", ImageURL: "https://example.com/a.jpg",
			Questions: []models.Question{
				{ID: "q1", Prompt: "Mèo", Answer: "cat"},
				{ID: "q2", Prompt: "Chó", Answer: "dog"},
			},
		},
		{
			ID: "colors", Title: "Colors", ImageURL: "https://example.com/c.jpg",
			Questions: []models.Question{{ID: "q1", Prompt: "Đỏ", Answer: "red"}},
		},
		{
			ID: "food", Title: "Food", ImageURL: "https://example.com/f.jpg",
			Questions: []models.Question{{ID: "q1", Prompt: "Cơm", Answer: "rice"}},
		},
	}
}

func newTestApp(t *testing.T, submitRate int) *testApp {
	t.Helper()

	catalogs, err := service.NewCatalogService(context.Background(), catalog.Static(testTopics()), 2, zerolog.Nop())
	require.NoError(t, err)

	sched := &quiztest.ManualScheduler{}
	quizzes := service.NewQuizService(catalogs, service.QuizConfig{
		Scheduler: sched,
		Source:    quiztest.KeepOrder{},
		Logger:    zerolog.Nop(),
	})

	tmpl, err := templates.Load()
	require.NoError(t, err)

	csrf := security.NewCSRFGenerator("test-secret")
	router := NewRouter(RouterConfig{
		Logger:    zerolog.Nop(),
		Catalog:   catalogs,
		Quizzes:   quizzes,
		CSRF:      csrf,
		Limiter:   security.NewRateLimiter(submitRate, time.Minute),
		Templates: tmpl,
	})

	return &testApp{router: router, sched: sched, csrf: csrf, quizzes: quizzes}
}

func (a *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: security.LearnerCookieName, Value: testLearner})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if _, ok := form[security.CSRFFormField]; !ok {
		token, err := a.csrf.GenerateToken(testLearner)
		require.NoError(t, err)
		form.Set(security.CSRFFormField, token)
	}

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: security.LearnerCookieName, Value: testLearner})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) submit(t *testing.T, answer string) SubmitResponse {
	t.Helper()
	rec := a.post(t, "/quiz/submit", url.Values{"answer": {answer}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, 30)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "health checks do not get a learner")
}

func TestHomeIssuesLearnerCookie(t *testing.T) {
	app := newTestApp(t, 30)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, security.LearnerCookieName, cookies[0].Name)
	assert.True(t, security.ValidLearnerID(cookies[0].Value))
	assert.True(t, cookies[0].HttpOnly)
}

func TestHomeKeepsValidLearnerCookie(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.get(t, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestHomePagination(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contains    []string
		notContains []string
	}{
		{
			name:        "first page",
			path:        "/",
			contains:    []string{"3 topics", "Animals", "Colors", `href="/?page=2"`},
			notContains: []string{"Food"},
		},
		{
			name:        "second page",
			path:        "/?page=2",
			contains:    []string{"Food", `href="/?page=1"`},
			notContains: []string{"Animals"},
		},
		{
			name:     "malformed page falls back to first",
			path:     "/?page=abc",
			contains: []string{"Animals"},
		},
		{
			name:     "page past the end is clamped",
			path:     "/?page=99",
			contains: []string{"Food"},
		},
	}

	app := newTestApp(t, 30)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.get(t, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestStartQuizRequiresCSRFToken(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.post(t, "/quiz/start/animals", url.Values{security.CSRFFormField: {"forged"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, app.quizzes.ActiveCount())
}

func TestStartQuizAcceptsHeaderToken(t *testing.T) {
	app := newTestApp(t, 30)
	token, err := app.csrf.GenerateToken(testLearner)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/quiz/start/animals", nil)
	req.Header.Set(security.CSRFHeader, token)
	req.AddCookie(&http.Cookie{Name: security.LearnerCookieName, Value: testLearner})
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/quiz", rec.Header().Get("Location"))
}

func TestStartQuizUnknownTopic(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.post(t, "/quiz/start/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowQuizWithoutSessionRedirectsHome(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.get(t, "/quiz")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestQuizFlow(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.post(t, "/quiz/start/animals", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = app.get(t, "/quiz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mèo")

	resp := app.submit(t, " CAT ")
	assert.True(t, resp.Accepted)
	require.NotNil(t, resp.Feedback)
	assert.Equal(t, "Correct!", resp.Feedback.Message)
	assert.Equal(t, quiz.StateShowingFeedback, resp.Snapshot.State)

	locked := app.submit(t, "dog")
	assert.False(t, locked.Accepted, "input is locked while feedback shows")
	assert.Nil(t, locked.Feedback)

	rec = app.get(t, "/quiz/results")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/quiz", rec.Header().Get("Location"))

	app.sched.Advance(800 * time.Millisecond)

	rec = app.get(t, "/quiz/state")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap quiz.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2, snap.Position)
	assert.Equal(t, "Chó", snap.Prompt)

	resp = app.submit(t, "cow")
	assert.True(t, resp.Accepted)
	assert.Equal(t, "Incorrect! Answer: DOG", resp.Feedback.Message)

	app.sched.Advance(3000 * time.Millisecond)

	rec = app.get(t, "/quiz")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/quiz/results", rec.Header().Get("Location"))

	rec = app.get(t, "/quiz/results")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "50%")
	assert.Contains(t, body, "1 / 2 correct")
	assert.Contains(t, body, "Needs Review")
	assert.Less(t, strings.Index(body, "Chó"), strings.Index(body, "Mèo"), "incorrect answers are listed first")
}

func TestSubmitWithoutQuiz(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.post(t, "/quiz/submit", url.Values{"answer": {"cat"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitRateLimited(t *testing.T) {
	app := newTestApp(t, 2)
	require.Equal(t, http.StatusSeeOther, app.post(t, "/quiz/start/animals", nil).Code)

	assert.Equal(t, http.StatusOK, app.post(t, "/quiz/submit", url.Values{"answer": {"cat"}}).Code)
	assert.Equal(t, http.StatusOK, app.post(t, "/quiz/submit", url.Values{"answer": {"cat"}}).Code)

	rec := app.post(t, "/quiz/submit", url.Values{"answer": {"cat"}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCancelQuizReturnsHome(t *testing.T) {
	app := newTestApp(t, 30)
	require.Equal(t, http.StatusSeeOther, app.post(t, "/quiz/start/animals", nil).Code)

	rec := app.post(t, "/quiz/cancel", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	assert.Equal(t, 0, app.quizzes.ActiveCount())
	assert.Equal(t, "/", app.get(t, "/quiz").Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, app.get(t, "/quiz/state").Code, "the quiz page poller stops on this")
	assert.Equal(t, 0, app.sched.Pending())
}

func TestRestartQuiz(t *testing.T) {
	app := newTestApp(t, 30)

	rec := app.post(t, "/quiz/restart", nil)
	assert.Equal(t, "/", rec.Header().Get("Location"), "nothing to restart")

	require.Equal(t, http.StatusSeeOther, app.post(t, "/quiz/start/colors", nil).Code)
	app.submit(t, "red")
	app.sched.Advance(800 * time.Millisecond)

	rec = app.post(t, "/quiz/restart", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/quiz", rec.Header().Get("Location"))

	rec = app.get(t, "/quiz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Đỏ")
}
