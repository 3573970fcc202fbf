package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
)

// ProcessManualUseCase builds the searchable index for one uploaded manual:
// extract pages, chunk, embed, index.
type ProcessManualUseCase struct {
	repo      ports.ManualRepository
	extractor ports.PageExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	index     ports.VectorIndex
}

func NewProcessManualUseCase(
	repo ports.ManualRepository,
	extractor ports.PageExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	index ports.VectorIndex,
) *ProcessManualUseCase {
	return &ProcessManualUseCase{
		repo:      repo,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
	}
}

func (uc *ProcessManualUseCase) ProcessByID(ctx context.Context, manualID string) error {
	if err := uc.repo.UpdateStatus(ctx, manualID, domain.StatusIndexing, ""); err != nil {
		return fmt.Errorf("set status=indexing: %w", err)
	}

	pageCount, chunkCount, err := uc.buildIndex(ctx, manualID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, manualID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveIndexStats(ctx, manualID, pageCount, chunkCount); err != nil {
		return fmt.Errorf("save index stats: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, manualID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessManualUseCase) buildIndex(ctx context.Context, manualID string) (int, int, error) {
	manual, err := uc.repo.GetByID(ctx, manualID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch manual by id: %w", err)
	}

	pages, err := uc.extractor.ExtractPages(ctx, manual)
	if err != nil {
		return 0, 0, fmt.Errorf("extract pages: %w", err)
	}
	if len(pages) == 0 {
		return 0, 0, domain.WrapError(domain.ErrInvalidInput, "extract pages",
			errors.New("no extractable pages"))
	}

	chunks := uc.chunker.SplitPages(pages)
	if len(chunks) == 0 {
		return 0, 0, domain.WrapError(domain.ErrInvalidInput, "chunk pages",
			errors.New("chunking produced zero chunks"))
	}
	for i := range chunks {
		chunks[i].ManualID = manual.ID
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, 0, domain.WrapError(domain.ErrInvalidInput, "embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)))
	}

	if err := uc.index.IndexChunks(ctx, chunks, vectors); err != nil {
		return 0, 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(pages), len(chunks), nil
}
