package search

import (
	"context"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// Catalog is the storage contract for vector search over courses.
type Catalog interface {
	SearchCourses(
		ctx context.Context, embedding []float32, limit int, filters domain.SearchFilters,
	) ([]domain.Course, error)
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
