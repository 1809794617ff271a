package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/learnia-cloud/course-search/internal/domain"
)

type mockReader struct {
	course     domain.Course
	courseErr  error
	categories []domain.Category
	catErr     error
	trending   []domain.Course
	gotLimit   int
}

func (m *mockReader) CourseByID(_ context.Context, _ string) (domain.Course, error) {
	return m.course, m.courseErr
}

func (m *mockReader) Categories(_ context.Context) ([]domain.Category, error) {
	return m.categories, m.catErr
}

func (m *mockReader) Trending(_ context.Context, limit int) ([]domain.Course, error) {
	m.gotLimit = limit
	return m.trending, nil
}

func TestCourseByID_NotFoundPropagates(t *testing.T) {
	svc := New(&mockReader{courseErr: domain.ErrNotFound})

	_, err := svc.CourseByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseByID(t *testing.T) {
	svc := New(&mockReader{course: domain.Course{ID: "abc", Title: "Go Basics"}})

	course, err := svc.CourseByID(context.Background(), "abc")
	if err != nil {
		t.Fatalf("CourseByID failed: %v", err)
	}
	if course.Title != "Go Basics" {
		t.Errorf("title = %q", course.Title)
	}
}

func TestCategories(t *testing.T) {
	svc := New(&mockReader{categories: []domain.Category{
		{Name: "Programming", Count: 42},
		{Name: "General", Count: 7},
	}})

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Programming" {
		t.Errorf("unexpected categories: %+v", categories)
	}
}

func TestTrending_ForwardsLimit(t *testing.T) {
	reader := &mockReader{trending: []domain.Course{{ID: "a"}}}
	svc := New(reader)

	courses, err := svc.Trending(context.Background(), 5)
	if err != nil {
		t.Fatalf("Trending failed: %v", err)
	}
	if reader.gotLimit != 5 {
		t.Errorf("limit = %d, want 5", reader.gotLimit)
	}
	if len(courses) != 1 {
		t.Errorf("got %d courses", len(courses))
	}
}
