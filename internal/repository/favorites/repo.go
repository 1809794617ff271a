// Package favorites persists user favorites in a relational store. One row
// per (user, course) pair enforced by a unique constraint.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// Config holds relational store connection settings. Table must already be
// validated against identifier characters; it is interpolated into SQL.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSL      bool
	Table    string
	PoolMin  int
	PoolMax  int
}

// Repo implements favorites storage on PostgreSQL.
type Repo struct {
	pool   *pgxpool.Pool
	table  string
	logger *zap.Logger
}

// New opens a connection pool against the favorites store.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Repo, error) {
	sslMode := "disable"
	if cfg.SSL {
		sslMode = "require"
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_min_conns=%d&pool_max_conns=%d",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Database, sslMode, cfg.PoolMin, cfg.PoolMax,
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open favorites pool: %w", err)
	}

	return &Repo{pool: pool, table: cfg.Table, logger: logger}, nil
}

// Ping checks favorites store connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping favorites store: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

// IsFavorite reports whether the (user, course) row exists.
func (r *Repo) IsFavorite(ctx context.Context, userID, courseID string) (bool, error) {
	query := fmt.Sprintf(
		`SELECT 1 FROM %s WHERE user_id = $1 AND mongodb_course_id = $2 LIMIT 1`, r.table)

	var one int
	err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("favorite lookup failed",
			zap.String("course_id", courseID), zap.Error(err))
		return false, fmt.Errorf("%w: favorite lookup: %w", domain.ErrServiceUnavailable, err)
	}
	return true, nil
}

// SetFavorite forces the favorite state and returns it. Adds insert a fresh
// row id and rely on the (user_id, mongodb_course_id) unique constraint to
// swallow duplicates; removes delete whatever is there.
func (r *Repo) SetFavorite(ctx context.Context, userID, courseID string, desired bool) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: begin favorite tx: %w", domain.ErrServiceUnavailable, err)
	}
	defer tx.Rollback(ctx)

	if desired {
		query := fmt.Sprintf(
			`INSERT INTO %s (favorite_id, user_id, mongodb_course_id, created_at)
			 VALUES ($1, $2, $3, NOW())
			 ON CONFLICT (user_id, mongodb_course_id) DO NOTHING`, r.table)
		if _, err := tx.Exec(ctx, query, uuid.NewString(), userID, courseID); err != nil {
			r.logger.Error("favorite insert failed",
				zap.String("course_id", courseID), zap.Error(err))
			return false, fmt.Errorf("%w: favorite insert: %w", domain.ErrServiceUnavailable, err)
		}
	} else {
		query := fmt.Sprintf(
			`DELETE FROM %s WHERE user_id = $1 AND mongodb_course_id = $2`, r.table)
		if _, err := tx.Exec(ctx, query, userID, courseID); err != nil {
			r.logger.Error("favorite delete failed",
				zap.String("course_id", courseID), zap.Error(err))
			return false, fmt.Errorf("%w: favorite delete: %w", domain.ErrServiceUnavailable, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("%w: commit favorite tx: %w", domain.ErrServiceUnavailable, err)
	}
	return desired, nil
}

// ListFavorites returns the user's favorites, newest first.
func (r *Repo) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	query := fmt.Sprintf(
		`SELECT mongodb_course_id, created_at FROM %s
		 WHERE user_id = $1 ORDER BY created_at DESC`, r.table)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("favorites list failed", zap.Error(err))
		return nil, fmt.Errorf("%w: favorites list: %w", domain.ErrServiceUnavailable, err)
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.CourseID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan favorite: %w", domain.ErrServiceUnavailable, err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: favorites rows: %w", domain.ErrServiceUnavailable, err)
	}
	return favorites, nil
}
