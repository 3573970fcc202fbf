package usecase

import (
	"context"
	"errors"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
)

// Retriever wraps the vector index: one embed call, one search call, and the
// similarity score attached to each chunk. No retries here; retry policy
// belongs to the calling layer.
type Retriever struct {
	embedder ports.Embedder
	index    ports.VectorIndex
}

func NewRetriever(embedder ports.Embedder, index ports.VectorIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve returns up to k chunks ordered by descending similarity, each with
// SourceScore set. Index unavailability surfaces as ErrRetrieval.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "retrieve", errors.New("k must be positive"))
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "embed query", err)
	}

	hits, err := r.index.Search(ctx, queryVector, k)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "search index", err)
	}

	chunks := make([]domain.Chunk, 0, len(hits))
	for _, hit := range hits {
		chunk := hit.Chunk
		score := hit.Score
		chunk.SourceScore = &score
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
