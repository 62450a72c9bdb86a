// Package catalog holds the read-only set of quiz topics and the ways of
// loading, validating and paging through it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"vocabquiz/internal/models"
)

// ErrTopicNotFound is returned when a topic ID is not in the catalog
var ErrTopicNotFound = errors.New("topic not found")

// Provider supplies the ordered list of topics
type Provider interface {
	Topics(ctx context.Context) ([]models.Topic, error)
}

// Catalog is an immutable, ordered collection of topics indexed by ID
type Catalog struct {
	topics []models.Topic
	byID   map[string]int
}

// New builds a catalog from topics, rejecting duplicate topic IDs
func New(topics []models.Topic) (*Catalog, error) {
	c := &Catalog{
		topics: make([]models.Topic, len(topics)),
		byID:   make(map[string]int, len(topics)),
	}
	for i, topic := range topics {
		if _, exists := c.byID[topic.ID]; exists {
			return nil, fmt.Errorf("duplicate topic id %q", topic.ID)
		}
		c.byID[topic.ID] = i
		c.topics[i] = cloneTopic(topic)
	}
	return c, nil
}

// Load reads every topic from the provider into a catalog
func Load(ctx context.Context, provider Provider) (*Catalog, error) {
	topics, err := provider.Topics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	return New(topics)
}

// Len returns the number of topics
func (c *Catalog) Len() int {
	return len(c.topics)
}

// Topics returns a copy of all topics in catalog order
func (c *Catalog) Topics(ctx context.Context) ([]models.Topic, error) {
	out := make([]models.Topic, len(c.topics))
	for i, topic := range c.topics {
		out[i] = cloneTopic(topic)
	}
	return out, nil
}

// Get returns the topic with the given ID
func (c *Catalog) Get(id string) (models.Topic, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Topic{}, fmt.Errorf("%w: %s", ErrTopicNotFound, id)
	}
	return cloneTopic(c.topics[i]), nil
}

// Page returns the summaries of the topics on the requested page
func (c *Catalog) Page(page, pageSize int) ([]models.TopicSummary, Pagination) {
	p := Paginate(len(c.topics), page, pageSize)
	summaries := make([]models.TopicSummary, 0, p.End-p.Start)
	for _, topic := range c.topics[p.Start:p.End] {
		summaries = append(summaries, topic.Summary())
	}
	return summaries, p
}

// cloneTopic copies the question slice so callers cannot mutate the catalog
func cloneTopic(t models.Topic) models.Topic {
	questions := make([]models.Question, len(t.Questions))
	copy(questions, t.Questions)
	t.Questions = questions
	return t
}

// staticProvider serves a fixed topic list
type staticProvider []models.Topic

// Static returns a Provider over an in-memory topic list
func Static(topics []models.Topic) Provider {
	return staticProvider(topics)
}

func (p staticProvider) Topics(ctx context.Context) ([]models.Topic, error) {
	out := make([]models.Topic, len(p))
	for i, topic := range p {
		out[i] = cloneTopic(topic)
	}
	return out, nil
}
