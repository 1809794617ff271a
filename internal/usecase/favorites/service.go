package favorites

import (
	"context"
	"fmt"
	"strings"

	"github.com/learnia-cloud/course-search/internal/domain"
	"github.com/learnia-cloud/course-search/internal/metrics"
)

// Service owns the favorite toggle state transition.
type Service struct {
	repo Repository
}

// New creates a favorites service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Toggle applies a favorite action for (user, course) and returns the
// resulting state. "add" and "remove" force the state; an empty action reads
// the current state and inverts it. The read-then-write inversion is not
// isolated against concurrent togglers; the last writer wins.
func (s *Service) Toggle(ctx context.Context, userID, courseID, action string) (bool, error) {
	switch strings.ToLower(action) {
	case "add":
		metrics.FavoriteTogglesTotal.WithLabelValues("add").Inc()
		return s.set(ctx, userID, courseID, true)
	case "remove":
		metrics.FavoriteTogglesTotal.WithLabelValues("remove").Inc()
		return s.set(ctx, userID, courseID, false)
	case "":
		current, err := s.repo.IsFavorite(ctx, userID, courseID)
		if err != nil {
			return false, fmt.Errorf("read favorite state: %w", err)
		}
		metrics.FavoriteTogglesTotal.WithLabelValues("invert").Inc()
		return s.set(ctx, userID, courseID, !current)
	default:
		return false, domain.ErrInvalidAction
	}
}

// List returns the user's favorites, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favorites, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

func (s *Service) set(ctx context.Context, userID, courseID string, desired bool) (bool, error) {
	state, err := s.repo.SetFavorite(ctx, userID, courseID, desired)
	if err != nil {
		return false, fmt.Errorf("set favorite: %w", err)
	}
	return state, nil
}
