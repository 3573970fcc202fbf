// Package bootstrap wires configuration into the concrete adapter graph used
// by the api, worker and mcp binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/Gaurav5289/rag-spec-extraction/internal/config"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/usecase"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/chunking"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/extractor/pdfpage"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/llm/ollama"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/queue/nats"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/repository/postgres"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/resilience"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/storage/localfs"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/vector/memory"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.ManualRepository
	IngestUC  ports.ManualIngestor
	ProcessUC ports.ManualProcessor
	QueryUC   ports.SpecQueryService

	closeFn func()
}

// Options toggles which parts of the graph a binary needs. The mcp binary
// runs without postgres or nats.
type Options struct {
	SkipPersistence bool
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

func NewWithOptions(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	extractor := ollama.NewExtractor(ollamaClient)

	var index ports.VectorIndex
	switch cfg.VectorBackend {
	case "memory":
		index = memory.NewIndex()
	default:
		index = qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	}

	classifierRules, boostRules, err := config.LoadScoringRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring rules: %w", err)
	}

	retriever := usecase.NewRetriever(embedder, index)
	queryUC := usecase.NewAnswerUseCase(retriever, extractor, usecase.AnswerOptions{
		RetrieveK:       cfg.RetrieveK,
		ContextK:        cfg.ContextK,
		ClassifierRules: &classifierRules,
		BoostRules:      &boostRules,
	})

	app := &App{
		Config:  cfg,
		QueryUC: queryUC,
		closeFn: func() {},
	}
	if opts.SkipPersistence {
		return app, nil
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewManualRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	pageExtractor := pdfpage.NewExtractor(storage)
	chunker := chunking.NewManualChunker(cfg.ChunkSize, cfg.ChunkOverlap)

	app.Queue = queue
	app.Repo = repo
	app.IngestUC = usecase.NewIngestManualUseCase(repo, storage, queue)
	app.ProcessUC = usecase.NewProcessManualUseCase(repo, pageExtractor, chunker, embedder, index)
	app.closeFn = func() {
		queue.Close()
		_ = db.Close()
	}
	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
