package handlers

import (
	"fmt"
	"unicode/utf8"
)

// MaxAnswerLength bounds a submitted answer, in characters
const MaxAnswerLength = 200

// ValidationError represents a rejected form field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validateAnswer rejects answers no question could expect. Blank answers
// pass through; the session ignores them.
func validateAnswer(answer string) error {
	if !utf8.ValidString(answer) {
		return ValidationError{Field: "answer", Message: "answer must be valid UTF-8"}
	}
	if utf8.RuneCountInString(answer) > MaxAnswerLength {
		return ValidationError{Field: "answer", Message: fmt.Sprintf("answer must be at most %d characters", MaxAnswerLength)}
	}
	return nil
}
