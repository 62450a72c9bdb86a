// Package results scores a finished quiz and orders its responses for review.
package results

import (
	"math"
	"slices"

	"vocabquiz/internal/models"
)

// Summary is the aggregate score of a finished session
type Summary struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	// Accuracy is the rounded percentage of correct responses
	Accuracy int `json:"accuracy"`
}

// Summarize scores the responses. An empty sequence scores zero.
func Summarize(responses []models.UserResponse) Summary {
	correct := models.CountCorrect(responses)
	summary := Summary{
		Total:     len(responses),
		Correct:   correct,
		Incorrect: len(responses) - correct,
	}
	if summary.Total > 0 {
		summary.Accuracy = int(math.Round(float64(correct) / float64(summary.Total) * 100))
	}
	return summary
}

// ReviewOrder returns a copy of the responses with incorrect ones first.
// Relative order within each group is preserved and the input is not modified.
func ReviewOrder(responses []models.UserResponse) []models.UserResponse {
	sorted := slices.Clone(responses)
	slices.SortStableFunc(sorted, func(a, b models.UserResponse) int {
		switch {
		case a.IsCorrect == b.IsCorrect:
			return 0
		case a.IsCorrect:
			return 1
		default:
			return -1
		}
	})
	return sorted
}

// Report bundles the summary with the review list for rendering
type Report struct {
	Summary
	Review []models.UserResponse `json:"review"`
}

// NewReport builds the result view data for a finished session
func NewReport(responses []models.UserResponse) Report {
	return Report{
		Summary: Summarize(responses),
		Review:  ReviewOrder(responses),
	}
}
