package handlers

import "errors"

const (
	ErrInvalidFormData     = "Invalid form data"
	ErrInvalidCSRFToken    = "Invalid or missing CSRF token"
	ErrTooManyRequests     = "Too many requests, slow down"
	ErrTopicNotFound       = "Topic not found"
	ErrNoActiveQuiz        = "No quiz in progress"
	ErrInternalServerError = "Internal server error"
)

var (
	errInvalidToken = errors.New("invalid csrf token")
	errRateLimited  = errors.New("rate limit exceeded")
)
