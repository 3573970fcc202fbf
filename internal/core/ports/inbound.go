package ports

import (
	"context"
	"io"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// SpecQueryService is the inbound contract for the retrieval-ranking-extraction
// pipeline. LastContext exposes the most recent assembled context for debug
// inspection only; it must never drive results.
type SpecQueryService interface {
	Answer(ctx context.Context, query string) (*domain.QueryResult, error)
	LastContext() string
}

// ManualIngestor is the inbound contract for manual upload orchestration.
type ManualIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Manual, error)
}

// ManualProcessor is the inbound contract for asynchronous index building.
type ManualProcessor interface {
	ProcessByID(ctx context.Context, manualID string) error
}

// ManualReader is the inbound read model for manual metadata/state.
type ManualReader interface {
	GetByID(ctx context.Context, id string) (*domain.Manual, error)
}
