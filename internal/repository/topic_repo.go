package repository

import (
	"context"
	"fmt"

	"vocabquiz/internal/database"
	"vocabquiz/internal/models"
)

// TopicRepository handles database operations for topics and their questions
type TopicRepository struct {
	db *database.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *database.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// Topics satisfies catalog.Provider
func (r *TopicRepository) Topics(ctx context.Context) ([]models.Topic, error) {
	return r.ListTopics(ctx)
}

// ListTopics retrieves every topic with its questions in catalog order
func (r *TopicRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	query := `
		SELECT id, title, description, image_url
		FROM topics
		ORDER BY sort_order, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	index := make(map[string]int)
	for rows.Next() {
		var topic models.Topic
		if err := rows.Scan(&topic.ID, &topic.Title, &topic.Description, &topic.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		index[topic.ID] = len(topics)
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topics: %w", err)
	}

	questions, err := r.db.QueryContext(ctx, `
		SELECT topic_id, id, prompt, answer
		FROM questions
		ORDER BY topic_id, sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer questions.Close()

	for questions.Next() {
		var topicID string
		var q models.Question
		if err := questions.Scan(&topicID, &q.ID, &q.Prompt, &q.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if i, ok := index[topicID]; ok {
			topics[i].Questions = append(topics[i].Questions, q)
		}
	}
	if err := questions.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return topics, nil
}

// Count returns the number of stored topics
func (r *TopicRepository) Count(ctx context.Context) (int, error) {
	return database.CountTopics(ctx, r.db)
}

// ReplaceAll deletes the stored catalog and writes topics in its place
func (r *TopicRepository) ReplaceAll(ctx context.Context, topics []models.Topic) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM topics"); err != nil {
		return fmt.Errorf("failed to clear topics: %w", err)
	}

	if err := database.InsertTopics(ctx, tx, topics, 0); err != nil {
		return err
	}

	return tx.Commit()
}

// Merge upserts topics; topics new to the catalog are appended after the existing ones
func (r *TopicRepository) Merge(ctx context.Context, topics []models.Topic) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(sort_order) + 1, 0) FROM topics").Scan(&next); err != nil {
		return fmt.Errorf("failed to read catalog order: %w", err)
	}

	if err := database.InsertTopics(ctx, tx, topics, next); err != nil {
		return err
	}

	return tx.Commit()
}
