package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"vocabquiz/internal/catalog"
	"vocabquiz/internal/models"
)

// SelectionPage is one page of the topic selection list
type SelectionPage struct {
	Topics      []models.TopicSummary
	Pagination  catalog.Pagination
	TotalTopics int
}

// CatalogService serves the topic catalog loaded from a provider
type CatalogService struct {
	provider catalog.Provider
	pageSize int
	logger   zerolog.Logger

	mu      sync.RWMutex
	current *catalog.Catalog
}

// NewCatalogService loads the catalog from provider
func NewCatalogService(ctx context.Context, provider catalog.Provider, pageSize int, logger zerolog.Logger) (*CatalogService, error) {
	s := &CatalogService{
		provider: provider,
		pageSize: pageSize,
		logger:   logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the served catalog with a fresh read of the provider.
// Quizzes already running keep the questions they started with.
func (s *CatalogService) Reload(ctx context.Context) error {
	c, err := catalog.Load(ctx, s.provider)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = c
	s.mu.Unlock()

	s.logger.Info().Int("topics", c.Len()).Msg("topic catalog loaded")
	return nil
}

func (s *CatalogService) catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Get returns a topic by ID
func (s *CatalogService) Get(id string) (models.Topic, error) {
	return s.catalog().Get(id)
}

// Page returns the requested selection page, clamped to the valid range
func (s *CatalogService) Page(page int) SelectionPage {
	c := s.catalog()
	topics, p := c.Page(page, s.pageSize)
	return SelectionPage{
		Topics:      topics,
		Pagination:  p,
		TotalTopics: c.Len(),
	}
}
