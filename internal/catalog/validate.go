package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"vocabquiz/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks imported topics: every topic needs an ID, a title, an image
// URL and at least one question, and IDs must be unique. Answers may be empty;
// such questions can never be answered correctly.
func Validate(topics []models.Topic) error {
	var errs []error
	seenTopics := make(map[string]bool, len(topics))

	for i, topic := range topics {
		if err := validate.Struct(topic); err != nil {
			errs = append(errs, fmt.Errorf("topic %d (%q): %w", i, topic.ID, err))
		}

		if topic.ID != "" && seenTopics[topic.ID] {
			errs = append(errs, fmt.Errorf("topic %d: duplicate topic id %q", i, topic.ID))
		}
		seenTopics[topic.ID] = true

		seenQuestions := make(map[string]bool, len(topic.Questions))
		for _, q := range topic.Questions {
			if q.ID != "" && seenQuestions[q.ID] {
				errs = append(errs, fmt.Errorf("topic %q: duplicate question id %q", topic.ID, q.ID))
			}
			seenQuestions[q.ID] = true
		}
	}

	return errors.Join(errs...)
}
