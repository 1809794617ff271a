package favorites

import (
	"context"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// Repository is the relational storage contract for user favorites.
type Repository interface {
	// IsFavorite checks existence of the (user, course) row.
	IsFavorite(ctx context.Context, userID, courseID string) (bool, error)

	// SetFavorite forces the favorite state and returns it. Both directions
	// are idempotent: repeated adds keep one row, repeated removes keep none.
	SetFavorite(ctx context.Context, userID, courseID string, desired bool) (bool, error)

	// ListFavorites returns the user's favorites, newest first.
	ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error)
}
