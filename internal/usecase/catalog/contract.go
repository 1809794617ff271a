package catalog

import (
	"context"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// Reader is the read-only storage contract for the course catalog.
type Reader interface {
	CourseByID(ctx context.Context, id string) (domain.Course, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Trending(ctx context.Context, limit int) ([]domain.Course, error)
}
