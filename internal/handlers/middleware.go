package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"vocabquiz/internal/security"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	csrf    *security.CSRFGenerator
	limiter *security.RateLimiter
	now     func() time.Time
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		csrf:    csrf,
		limiter: limiter,
		now:     time.Now,
	}
}

// Logging attaches a request-scoped logger to the context and logs each
// request once it has been served
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Logger()
			ctx := reqLogger.WithContext(r.Context())

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// Learner identifies the browser by its learner cookie, issuing a new ID
// when the cookie is missing or malformed
func (m *Middleware) Learner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var learnerID string
		if cookie, err := r.Cookie(security.LearnerCookieName); err == nil && security.ValidLearnerID(cookie.Value) {
			learnerID = cookie.Value
		} else {
			learnerID = security.GenerateLearnerID()
			http.SetCookie(w, security.CreateLearnerCookie(r, learnerID, m.now()))
		}

		ctx := security.WithLearner(r.Context(), learnerID)
		logger := zerolog.Ctx(ctx).With().Str("learner_id", learnerID).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
	})
}

// CSRFProtect rejects requests whose token does not belong to the learner.
// The token is read from the csrf_token form field or the X-CSRF-Token header.
func (m *Middleware) CSRFProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		learnerID, _ := security.LearnerFromContext(r.Context())

		token := r.Header.Get(security.CSRFHeader)
		if token == "" {
			token = r.FormValue(security.CSRFFormField)
		}

		if !m.csrf.ValidateToken(learnerID, token) {
			respondWithError(w, r, http.StatusForbidden, ErrInvalidCSRFToken, "csrf validation failed", errInvalidToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit limits requests per learner, falling back to the client IP
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := security.LearnerFromContext(r.Context())
		if !ok {
			key = security.GetClientIP(r)
		}

		if !m.limiter.Allow(key) {
			w.Header().Set("Retry-After", "60")
			respondWithError(w, r, http.StatusTooManyRequests, ErrTooManyRequests, "rate limit exceeded", errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// csrfToken returns the token for the learner in the request context
func (m *Middleware) csrfToken(r *http.Request) string {
	learnerID, ok := security.LearnerFromContext(r.Context())
	if !ok {
		return ""
	}
	token, err := m.csrf.GenerateToken(learnerID)
	if err != nil {
		return ""
	}
	return token
}
