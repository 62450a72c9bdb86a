package quiz

import (
	"strings"

	"vocabquiz/internal/models"
)

// CorrectMessage is the feedback shown after a correct answer
const CorrectMessage = "Correct!"

const incorrectPrefix = "Incorrect! Answer: "

// Feedback is the grade of the most recent answer as shown to the learner
type Feedback struct {
	IsCorrect bool   `json:"isCorrect"`
	Message   string `json:"message"`
}

// Normalize trims surrounding whitespace and lower-cases text
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsCorrect compares a raw answer against the expected one after normalizing both.
// An empty expected answer never matches.
func IsCorrect(expected, raw string) bool {
	normalizedExpected := Normalize(expected)
	if normalizedExpected == "" {
		return false
	}
	return Normalize(raw) == normalizedExpected
}

// Grade builds the response record for a raw answer to q
func Grade(q models.Question, raw string) models.UserResponse {
	return models.UserResponse{
		QuestionID:    q.ID,
		QuestionText:  q.Prompt,
		CorrectAnswer: q.Answer,
		UserAnswer:    Normalize(raw),
		IsCorrect:     IsCorrect(q.Answer, raw),
	}
}

// FeedbackFor returns the message shown after grading an answer to q
func FeedbackFor(q models.Question, correct bool) Feedback {
	if correct {
		return Feedback{IsCorrect: true, Message: CorrectMessage}
	}
	return Feedback{
		IsCorrect: false,
		Message:   incorrectPrefix + strings.ToUpper(strings.TrimSpace(q.Answer)),
	}
}
