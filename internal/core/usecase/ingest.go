package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
)

type IngestManualUseCase struct {
	repo    ports.ManualRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestManualUseCase(
	repo ports.ManualRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestManualUseCase {
	return &IngestManualUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the manual, records its metadata, and hands indexing off to
// the worker via the queue.
func (uc *IngestManualUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Manual, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload manual",
			errors.New("only PDF manuals are supported"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save manual to storage: %w", err)
	}

	manual := &domain.Manual{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, manual); err != nil {
		return nil, fmt.Errorf("create manual metadata: %w", err)
	}

	if err := uc.queue.PublishManualUploaded(ctx, manual.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return manual, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "manual.pdf"
	}
	return base
}
