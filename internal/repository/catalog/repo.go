// Package catalog reads the course catalog from a document store with an
// Atlas vector search index. All operations are read-only projections.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// candidateMultiplier sizes the nearest-neighbor candidate pool relative to
// the requested limit. Filters run client-side over this pool, so the final
// page can under-fill; that approximation is accepted.
const candidateMultiplier = 20

// projection is the fixed field set returned by every catalog read.
var projection = bson.D{
	{Key: "_id", Value: 1},
	{Key: "title", Value: 1},
	{Key: "description", Value: 1},
	{Key: "url", Value: 1},
	{Key: "platform", Value: 1},
	{Key: "rating", Value: 1},
	{Key: "duration", Value: 1},
	{Key: "price", Value: 1},
	{Key: "language", Value: 1},
	{Key: "category", Value: 1},
	{Key: "level", Value: 1},
	{Key: "students_count", Value: 1},
}

// Config holds document store connection settings.
type Config struct {
	URI                string
	Database           string
	Collection         string
	SearchIndex        string
	ConnectTimeoutMS   int
	SelectionTimeoutMS int
}

// Repo implements catalog reads against MongoDB.
type Repo struct {
	client      *mongo.Client
	coll        *mongo.Collection
	searchIndex string
	logger      *zap.Logger
}

// New connects to the document store and returns a catalog repository.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Repo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeoutMS) * time.Millisecond).
		SetServerSelectionTimeout(time.Duration(cfg.SelectionTimeoutMS) * time.Millisecond)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog store: %w", err)
	}

	return &Repo{
		client:      client,
		coll:        client.Database(cfg.Database).Collection(cfg.Collection),
		searchIndex: cfg.SearchIndex,
		logger:      logger,
	}, nil
}

// Ping checks catalog store connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping catalog store: %w", err)
	}
	return nil
}

// Close disconnects from the store.
func (r *Repo) Close(ctx context.Context) error {
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect catalog store: %w", err)
	}
	return nil
}

// SearchCourses runs vector search over the catalog, applies filters
// client-side on the candidate set, and returns at most limit courses in the
// store's similarity order.
func (r *Repo) SearchCourses(
	ctx context.Context, embedding []float32, limit int, filters domain.SearchFilters,
) ([]domain.Course, error) {
	searchProjection := append(bson.D{}, projection...)
	searchProjection = append(searchProjection,
		bson.E{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}})

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: r.searchIndex},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: embedding},
			{Key: "numCandidates", Value: limit * candidateMultiplier},
			{Key: "limit", Value: limit},
		}}},
		bson.D{{Key: "$project", Value: searchProjection}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("catalog vector search failed", zap.Error(err))
		return nil, fmt.Errorf("%w: vector search: %w", domain.ErrCatalogUnavailable, err)
	}

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("catalog vector search decode failed", zap.Error(err))
		return nil, fmt.Errorf("%w: decode candidates: %w", domain.ErrCatalogUnavailable, err)
	}

	courses := make([]domain.Course, 0, len(docs))
	for i := range docs {
		course := docs[i].toDomain(false)
		if !filters.Matches(course) {
			continue
		}
		courses = append(courses, course)
		if len(courses) == limit {
			break
		}
	}
	return courses, nil
}

// CourseByID looks up a course by its native ObjectID, falling back to the
// legacy alias field for non-ObjectID identifiers. The result includes
// embedding metadata not present in other reads.
func (r *Repo) CourseByID(ctx context.Context, id string) (domain.Course, error) {
	var filter bson.D
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.D{{Key: "_id", Value: oid}}
	} else {
		filter = bson.D{{Key: "legacy_id", Value: id}}
	}

	var doc courseDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Course{}, domain.ErrNotFound
		}
		r.logger.Error("catalog course fetch failed", zap.String("course_id", id), zap.Error(err))
		return domain.Course{}, fmt.Errorf("%w: find course: %w", domain.ErrCatalogUnavailable, err)
	}

	return doc.toDomain(true), nil
}

// Categories groups the catalog by category, coercing missing categories to
// "General", sorted by count descending.
func (r *Repo) Categories(ctx context.Context) ([]domain.Category, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$category", "General"}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("catalog categories failed", zap.Error(err))
		return nil, fmt.Errorf("%w: aggregate categories: %w", domain.ErrCatalogUnavailable, err)
	}

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("catalog categories decode failed", zap.Error(err))
		return nil, fmt.Errorf("%w: decode categories: %w", domain.ErrCatalogUnavailable, err)
	}

	categories := make([]domain.Category, len(docs))
	for i, d := range docs {
		categories[i] = domain.Category{Name: d.Name, Count: d.Count}
	}
	return categories, nil
}

// Trending returns up to limit courses sorted by students_count descending,
// then rating descending.
func (r *Repo) Trending(ctx context.Context, limit int) ([]domain.Course, error) {
	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{
			{Key: "students_count", Value: -1},
			{Key: "rating", Value: -1},
		}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error("catalog trending failed", zap.Error(err))
		return nil, fmt.Errorf("%w: find trending: %w", domain.ErrCatalogUnavailable, err)
	}

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("catalog trending decode failed", zap.Error(err))
		return nil, fmt.Errorf("%w: decode trending: %w", domain.ErrCatalogUnavailable, err)
	}

	courses := make([]domain.Course, len(docs))
	for i := range docs {
		courses[i] = docs[i].toDomain(false)
	}
	return courses, nil
}
