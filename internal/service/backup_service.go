package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"vocabquiz/internal/catalog"
	"vocabquiz/internal/models"
)

// TopicStore is the persistent catalog written by imports
type TopicStore interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
	ReplaceAll(ctx context.Context, topics []models.Topic) error
	Merge(ctx context.Context, topics []models.Topic) error
}

// BackupService exports and imports the stored topic catalog as JSON
type BackupService struct {
	store  TopicStore
	logger zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(store TopicStore, logger zerolog.Logger) *BackupService {
	return &BackupService{store: store, logger: logger}
}

// Export writes the stored catalog to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) (int, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	n, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Str("path", outputPath).Int("topics", n).Msg("catalog exported")
	return n, nil
}

// ExportToWriter writes the stored catalog as a JSON document
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (int, error) {
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to export topics: %w", err)
	}
	if err := catalog.WriteJSON(w, topics); err != nil {
		return 0, err
	}
	return len(topics), nil
}

// Import loads a catalog file. With replace set the stored catalog is
// discarded first; otherwise topics are merged by ID.
func (s *BackupService) Import(ctx context.Context, inputPath string, replace bool) (int, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, replace)
}

// ImportFromReader validates and stores a catalog document
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader, replace bool) (int, error) {
	doc, err := catalog.ReadJSON(r)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int("version", doc.Version).
		Time("exported_at", doc.ExportedAt).
		Int("topics", len(doc.Topics)).
		Bool("replace", replace).
		Msg("importing catalog")

	if replace {
		err = s.store.ReplaceAll(ctx, doc.Topics)
	} else {
		err = s.store.Merge(ctx, doc.Topics)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to import topics: %w", err)
	}

	return len(doc.Topics), nil
}
