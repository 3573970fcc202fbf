package ports

import (
	"context"
	"io"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// ManualRepository persists and reads manual state.
type ManualRepository interface {
	Create(ctx context.Context, m *domain.Manual) error
	GetByID(ctx context.Context, id string) (*domain.Manual, error)
	UpdateStatus(ctx context.Context, id string, status domain.ManualStatus, errMessage string) error
	SaveIndexStats(ctx context.Context, id string, pageCount, chunkCount int) error
}

// ObjectStorage stores source manual files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes manual-uploaded events.
type MessageQueue interface {
	PublishManualUploaded(ctx context.Context, manualID string) error
	SubscribeManualUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// PageExtractor extracts per-page text from a stored manual.
type PageExtractor interface {
	ExtractPages(ctx context.Context, m *domain.Manual) ([]domain.ManualPage, error)
}

// Chunker splits extracted pages into retrievable chunks with page/section
// metadata attached.
type Chunker interface {
	SplitPages(pages []domain.ManualPage) []domain.Chunk
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex indexes chunks and performs nearest-neighbor search. Search
// returns up to limit hits ordered by descending similarity.
type VectorIndex interface {
	IndexChunks(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.IndexHit, error)
}

// SpecExtractor invokes the language model once per call and parses its
// structured response into spec items.
type SpecExtractor interface {
	Extract(ctx context.Context, query string, queryType domain.QueryType, chunks []domain.ScoredChunk) ([]domain.SpecItem, error)
}
