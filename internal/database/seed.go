package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"vocabquiz/internal/models"
)

// CountTopics returns the number of stored topics
func CountTopics(ctx context.Context, q DBTX) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM topics").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	return count, nil
}

// SeedTopics fills an empty catalog with topics. A catalog that already
// holds topics is left untouched and zero is returned.
func (db *DB) SeedTopics(ctx context.Context, topics []models.Topic) (int, error) {
	count, err := CountTopics(ctx, db)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Debug().Int("topics", count).Msg("topic catalog already populated")
		return 0, nil
	}

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := InsertTopics(ctx, tx, topics, 0); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Int("topics", len(topics)).Msg("topic catalog seeded")
	return len(topics), nil
}

// InsertTopics writes topics and their questions inside tx, numbering the
// topics from firstOrder. Existing topics with the same id are overwritten
// and their questions replaced.
func InsertTopics(ctx context.Context, tx *Tx, topics []models.Topic, firstOrder int) error {
	topicStmt, err := tx.PrepareContext(ctx, tx.dialect.UpsertTopicQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare topic statement: %w", err)
	}
	defer topicStmt.Close()

	questionStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO questions (topic_id, id, prompt, answer, sort_order) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare question statement: %w", err)
	}
	defer questionStmt.Close()

	for i, topic := range topics {
		if _, err := topicStmt.ExecContext(ctx, topic.ID, topic.Title, topic.Description, topic.ImageURL, firstOrder+i); err != nil {
			return fmt.Errorf("failed to insert topic %s: %w", topic.ID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE topic_id = ?", topic.ID); err != nil {
			return fmt.Errorf("failed to clear questions for topic %s: %w", topic.ID, err)
		}

		for j, q := range topic.Questions {
			if _, err := questionStmt.ExecContext(ctx, topic.ID, q.ID, q.Prompt, q.Answer, j); err != nil {
				return fmt.Errorf("failed to insert question %s: %w", q.ID, err)
			}
		}
	}

	return nil
}
