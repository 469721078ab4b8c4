package service

import (
	"context"

	"storefront-discovery/internal/discovery"
	"storefront-discovery/internal/domain"
	"storefront-discovery/internal/repository"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize applies when the request names no limit.
	DefaultPageSize = 50
)

// DiscoveryService is the application surface of product discovery.
type DiscoveryService interface {
	Discover(ctx context.Context, f domain.DiscoveryFilter) (*discovery.Result, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type discoveryService struct {
	engine      *discovery.Engine
	catalog     repository.CatalogRepository
	maxPageSize int
	logger      *zap.Logger
}

// NewDiscoveryService creates a new DiscoveryService. maxPageSize caps the
// requested limit; zero or negative means no cap.
func NewDiscoveryService(engine *discovery.Engine, catalog repository.CatalogRepository, maxPageSize int, logger *zap.Logger) DiscoveryService {
	return &discoveryService{
		engine:      engine,
		catalog:     catalog,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// Discover normalizes the pagination window and runs the discovery pipeline.
func (s *discoveryService) Discover(ctx context.Context, f domain.DiscoveryFilter) (*discovery.Result, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if s.maxPageSize > 0 && f.Limit > s.maxPageSize {
		f.Limit = s.maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Sort == "" {
		f.Sort = domain.SortDefault
	}

	result, err := s.engine.Discover(ctx, f)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Discovery query resolved",
		zap.String("category_id", f.CategoryID),
		zap.String("search", f.Search),
		zap.Int("count", result.Count),
	)

	return result, nil
}

// ListCategories returns the category list for the storefront filter sidebar.
func (s *discoveryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}
