package catalog

import (
	"context"
	"fmt"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// DefaultTrendingLimit applies when the trending request omits a limit.
const DefaultTrendingLimit = 12

// Service exposes read-only catalog operations.
type Service struct {
	repo Reader
}

// New creates a catalog service.
func New(repo Reader) *Service {
	return &Service{repo: repo}
}

// CourseByID returns a single course, including embedding metadata.
// Missing courses surface as domain.ErrNotFound.
func (s *Service) CourseByID(ctx context.Context, id string) (domain.Course, error) {
	course, err := s.repo.CourseByID(ctx, id)
	if err != nil {
		return domain.Course{}, fmt.Errorf("course by id: %w", err)
	}
	return course, nil
}

// Categories aggregates the catalog by category, most populated first.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return categories, nil
}

// Trending returns up to limit courses by student count, then rating.
func (s *Service) Trending(ctx context.Context, limit int) ([]domain.Course, error) {
	courses, err := s.repo.Trending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	return courses, nil
}
