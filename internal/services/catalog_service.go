package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/repository"
	"go.uber.org/zap"
)

const catalogGeneration = "types"

// activeTypesCacheKey is versioned by the catalog generation, so a list read
// before a mutation can never be stored where later readers look.
func activeTypesCacheKey(gen int64) string {
	return CacheKey("types", "active:"+strconv.FormatInt(gen, 10))
}

// NormalizeLabel trims and uppercases a problem-type label.
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// CatalogService manages problem types. Active types are served from the
// cache; every mutation bumps the catalog generation.
type CatalogService struct {
	repo   repository.ProblemTypeRepository
	cache  Cache
	logger *zap.Logger
}

func NewCatalogService(repo repository.ProblemTypeRepository, cache Cache, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

func (s *CatalogService) List(ctx context.Context) ([]models.ProblemType, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.ProblemType, error) {
	// The generation must be read before the repository.
	gen, err := s.cache.Generation(ctx, catalogGeneration)
	if err != nil {
		s.logger.Warn("catalog cache generation read failed", zap.Error(err))
		return s.repo.ListActive(ctx)
	}
	key := activeTypesCacheKey(gen)

	var cached []models.ProblemType
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}
	if found {
		return cached, nil
	}

	types, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, types); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return types, nil
}

func (s *CatalogService) Create(ctx context.Context, label string) (*models.ProblemType, error) {
	label = NormalizeLabel(label)
	if label == "" {
		return nil, apperrors.Validation("Le libellé est obligatoire")
	}
	pt, err := s.repo.Create(ctx, label)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pt, nil
}

func (s *CatalogService) SetActive(ctx context.Context, id int, active bool) (*models.ProblemType, error) {
	pt, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pt, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	gen, err := s.cache.Generation(ctx, catalogGeneration)
	if err == nil {
		err = s.cache.Bump(ctx, catalogGeneration)
	}
	if err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
		return
	}
	if err := s.cache.Delete(ctx, activeTypesCacheKey(gen)); err != nil {
		s.logger.Warn("catalog cache cleanup failed", zap.Error(err))
	}
}
