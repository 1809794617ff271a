package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/learnia-cloud/course-search/internal/domain"
)

const (
	// DefaultLimit applies when the request omits a limit.
	DefaultLimit = 12
	// MaxLimit caps the number of results per search.
	MaxLimit = 40
)

// Service validates a search query, obtains its embedding, and queries the
// course catalog.
type Service struct {
	catalog Catalog
	embed   Embedder
}

// New creates a search service.
func New(catalog Catalog, embed Embedder) *Service {
	return &Service{catalog: catalog, embed: embed}
}

// Result is the shaped outcome of one search.
type Result struct {
	Courses []domain.Course
	Query   string
}

// Search trims and validates the query, clamps the limit, and runs the
// embedding + catalog pipeline. A nil limit means DefaultLimit; explicit
// limits are clamped to [1, MaxLimit].
func (s *Service) Search(
	ctx context.Context, query string, limit *int, filters domain.SearchFilters,
) (Result, error) {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < 3 {
		return Result{}, domain.ErrInvalidQuery
	}

	effective := clampLimit(limit)

	embResult, err := s.embed.Embed(ctx, trimmed)
	if err != nil {
		return Result{}, fmt.Errorf("vectorize query: %w", err)
	}

	courses, err := s.catalog.SearchCourses(ctx, embResult.Embedding, effective, filters)
	if err != nil {
		return Result{}, fmt.Errorf("search courses: %w", err)
	}

	return Result{Courses: courses, Query: trimmed}, nil
}

func clampLimit(limit *int) int {
	if limit == nil {
		return DefaultLimit
	}
	switch {
	case *limit < 1:
		return 1
	case *limit > MaxLimit:
		return MaxLimit
	default:
		return *limit
	}
}
