package models

// UserResponse records the learner's answer to one question of a session.
// QuestionText and CorrectAnswer are snapshots taken when the answer was graded.
type UserResponse struct {
	QuestionID    string `json:"questionId"`
	QuestionText  string `json:"questionText"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// CountCorrect returns how many responses were graded correct
func CountCorrect(responses []UserResponse) int {
	correct := 0
	for _, r := range responses {
		if r.IsCorrect {
			correct++
		}
	}
	return correct
}
