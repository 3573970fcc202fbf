package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

type embedderFake struct {
	queries []string
	err     error
}

func (f *embedderFake) Embed(context.Context, []string) ([][]float32, error) { return nil, f.err }
func (f *embedderFake) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

type indexFake struct {
	limit int
	hits  []domain.IndexHit
	err   error
}

func (f *indexFake) IndexChunks(context.Context, []domain.Chunk, [][]float32) error { return nil }
func (f *indexFake) Search(_ context.Context, _ []float32, limit int) ([]domain.IndexHit, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func TestRetrieveAttachesSourceScores(t *testing.T) {
	index := &indexFake{hits: []domain.IndexHit{
		{Chunk: domain.Chunk{ID: "c1", Text: "torque 35 Nm", Page: 12}, Score: 0.91},
		{Chunk: domain.Chunk{ID: "c2", Text: "coolant notes", Page: 3}, Score: 0.40},
	}}
	r := NewRetriever(&embedderFake{}, index)

	chunks, err := r.Retrieve(context.Background(), "torque?", 15)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if index.limit != 15 {
		t.Fatalf("expected k=15 passed to index, got %d", index.limit)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].SourceScore == nil || *chunks[0].SourceScore != 0.91 {
		t.Fatalf("expected source score 0.91, got %v", chunks[0].SourceScore)
	}
	if chunks[1].SourceScore == nil || *chunks[1].SourceScore != 0.40 {
		t.Fatalf("expected source score 0.40, got %v", chunks[1].SourceScore)
	}
}

func TestRetrieveWrapsIndexFailureAsRetrievalError(t *testing.T) {
	r := NewRetriever(&embedderFake{}, &indexFake{err: errors.New("index not built")})
	_, err := r.Retrieve(context.Background(), "q", 5)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestRetrieveWrapsEmbedFailureAsRetrievalError(t *testing.T) {
	r := NewRetriever(&embedderFake{err: errors.New("embed down")}, &indexFake{})
	_, err := r.Retrieve(context.Background(), "q", 5)
	if !domain.IsKind(err, domain.ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestRetrieveRejectsNonPositiveK(t *testing.T) {
	r := NewRetriever(&embedderFake{}, &indexFake{})
	_, err := r.Retrieve(context.Background(), "q", 0)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
