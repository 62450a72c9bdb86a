package handlers

import (
	"vocabquiz/internal/models"
	"vocabquiz/internal/quiz"
	"vocabquiz/internal/results"
	"vocabquiz/internal/service"
)

// Layout is shared by every page
type Layout struct {
	Title     string
	CSRFToken string
	// ShowHome renders the header button that abandons the current quiz
	ShowHome bool
}

type HomeViewData struct {
	Layout
	Page service.SelectionPage
}

type QuizViewData struct {
	Layout
	Snapshot quiz.Snapshot
	// Progress is the share of questions answered, as a whole percentage
	Progress int
	Locked   bool
}

type ResultsViewData struct {
	Layout
	Topic  models.Topic
	Report *results.Report
}

func newQuizViewData(layout Layout, snap quiz.Snapshot) QuizViewData {
	data := QuizViewData{
		Layout:   layout,
		Snapshot: snap,
		Locked:   snap.State != quiz.StateAwaitingInput,
	}
	if snap.Total > 0 {
		data.Progress = snap.Answered * 100 / snap.Total
	}
	return data
}
