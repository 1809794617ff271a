package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (s stubEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return s.result, s.err
}

func TestInstrumentedEmbed_Success(t *testing.T) {
	inner := stubEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 4,
	}}
	emb := NewInstrumentedEmbedder(inner, "bedrock", "titan", zap.NewNop())

	result, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(result.Embedding) != 2 {
		t.Errorf("embedding length = %d, want 2", len(result.Embedding))
	}
	if result.TotalTokens != 4 {
		t.Errorf("TotalTokens = %d, want 4", result.TotalTokens)
	}
}

func TestInstrumentedEmbed_ErrorPropagation(t *testing.T) {
	innerErr := errors.New("provider down")
	emb := NewInstrumentedEmbedder(stubEmbedder{err: innerErr}, "bedrock", "titan", zap.NewNop())

	_, err := emb.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}
