package domain

import "time"

// Course is a read-only projection of a catalog document. Optional fields are
// pointers so that absent values render as JSON null, matching the catalog
// contract consumed by the frontend.
type Course struct {
	ID            string   `json:"course_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	URL           string   `json:"url"`
	Platform      string   `json:"platform"`
	Rating        *float64 `json:"rating"`
	Duration      *string  `json:"duration"`
	Price         *float64 `json:"price"`
	Language      *string  `json:"language"`
	Category      *string  `json:"category"`
	Level         *string  `json:"level"`
	StudentsCount *int     `json:"students_count"`

	// Score is the vector similarity score, present on search results only.
	Score *float64 `json:"score,omitempty"`

	// Embedding metadata, present on by-id reads only.
	EmbeddingModel *string    `json:"embedding_model,omitempty"`
	EmbeddingDim   *int       `json:"embedding_dim,omitempty"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

// Category is a catalog category with its course count, derived by
// aggregation on each request.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Favorite is one (user, course) favorite row.
type Favorite struct {
	CourseID  string    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
