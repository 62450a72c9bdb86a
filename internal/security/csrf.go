package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// CSRFFormField and CSRFHeader are where a submitted token is looked for
const (
	CSRFFormField = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"
)

// ErrMissingLearner is returned when a token is requested without a learner ID
var ErrMissingLearner = errors.New("learner ID is required")

// CSRFGenerator derives CSRF tokens from the learner ID with HMAC-SHA256,
// so any replica holding the secret can check them
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a new HMAC-based CSRF generator
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

// GenerateToken returns the CSRF token for the learner
func (g *CSRFGenerator) GenerateToken(learnerID string) (string, error) {
	if learnerID == "" {
		return "", ErrMissingLearner
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(learnerID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateToken reports whether token belongs to learnerID
func (g *CSRFGenerator) ValidateToken(learnerID, token string) bool {
	if learnerID == "" || token == "" {
		return false
	}
	expected, err := g.GenerateToken(learnerID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
