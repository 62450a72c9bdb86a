package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LearnerCookieName holds the anonymous learner ID
const LearnerCookieName = "learner_id"

// LearnerCookieLifetime is how long a browser keeps its learner ID
const LearnerCookieLifetime = 30 * 24 * time.Hour

// GenerateLearnerID creates a new anonymous learner ID
func GenerateLearnerID() string {
	return uuid.New().String()
}

// ValidLearnerID reports whether id has the form GenerateLearnerID produces
func ValidLearnerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// IsSecureRequest determines if the request is over HTTPS.
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// CreateLearnerCookie creates the learner cookie with the Secure flag set from the request scheme
func CreateLearnerCookie(r *http.Request, learnerID string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     LearnerCookieName,
		Value:    learnerID,
		Path:     "/",
		Expires:  now.Add(LearnerCookieLifetime),
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
