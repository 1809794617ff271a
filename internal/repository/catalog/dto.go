package catalog

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnia-cloud/course-search/internal/domain"
)

// courseDoc mirrors one catalog document. The native id can be an ObjectID or
// a legacy string, so it decodes as an open type.
type courseDoc struct {
	ID             interface{} `bson:"_id"`
	Title          string      `bson:"title"`
	Description    string      `bson:"description"`
	URL            string      `bson:"url"`
	Platform       string      `bson:"platform"`
	Rating         *float64    `bson:"rating"`
	Duration       *string     `bson:"duration"`
	Price          *float64    `bson:"price"`
	Language       *string     `bson:"language"`
	Category       *string     `bson:"category"`
	Level          *string     `bson:"level"`
	StudentsCount  *int        `bson:"students_count"`
	Score          *float64    `bson:"score"`
	EmbeddingModel *string     `bson:"embedding_model"`
	EmbeddingDim   *int        `bson:"embedding_dim"`
	ProcessedAt    *time.Time  `bson:"processed_at"`
}

// toDomain projects the document onto a Course. The similarity score rides
// along only when the aggregation produced one; embedding metadata is
// attached only for by-id reads.
func (d *courseDoc) toDomain(includeMetadata bool) domain.Course {
	course := domain.Course{
		ID:            stringifyID(d.ID),
		Title:         d.Title,
		Description:   d.Description,
		URL:           d.URL,
		Platform:      d.Platform,
		Rating:        d.Rating,
		Duration:      d.Duration,
		Price:         d.Price,
		Language:      d.Language,
		Category:      d.Category,
		Level:         d.Level,
		StudentsCount: d.StudentsCount,
		Score:         d.Score,
	}
	if includeMetadata {
		course.EmbeddingModel = d.EmbeddingModel
		course.EmbeddingDim = d.EmbeddingDim
		course.ProcessedAt = d.ProcessedAt
	}
	return course
}

// categoryDoc mirrors one row of the category aggregation.
type categoryDoc struct {
	Name  string `bson:"_id"`
	Count int    `bson:"count"`
}

func stringifyID(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
