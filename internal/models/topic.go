package models

// Question is a single prompt and its expected answer within a topic
type Question struct {
	ID     string `json:"id" validate:"required"`
	Prompt string `json:"question" validate:"required"`
	Answer string `json:"answer"`
}

// Topic is a named, ordered collection of questions on one subject
type Topic struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl" validate:"required,url"`
	Questions   []Question `json:"questions" validate:"required,min=1,dive"`
}

// QuestionCount returns the number of questions in the topic
func (t Topic) QuestionCount() int {
	return len(t.Questions)
}

// TopicSummary is the lightweight form of a topic used by the selection page
type TopicSummary struct {
	ID            string
	Title         string
	ImageURL      string
	QuestionCount int
}

// Summary returns the topic without its questions
func (t Topic) Summary() TopicSummary {
	return TopicSummary{
		ID:            t.ID,
		Title:         t.Title,
		ImageURL:      t.ImageURL,
		QuestionCount: len(t.Questions),
	}
}
