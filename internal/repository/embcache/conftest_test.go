package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func newTestCache(t *testing.T, inner domain.Embedder) *CachedEmbedder {
	t.Helper()
	store, err := NewMemoryStore(16)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return New(inner, store, nil, zap.NewNop())
}
