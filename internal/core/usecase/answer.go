package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
)

const (
	defaultRetrieveK = 15
	defaultContextK  = 6
)

// AnswerOptions tunes pipeline breadth. Zero values fall back to defaults.
type AnswerOptions struct {
	RetrieveK       int
	ContextK        int
	ClassifierRules *ClassifierRules
	BoostRules      *BoostRules
}

// AnswerUseCase sequences classifier, retriever, reranker and extraction
// engine. The pipeline is strictly linear; errors from any stage propagate
// unmodified and nothing here retries.
type AnswerUseCase struct {
	retriever  *Retriever
	extractor  ports.SpecExtractor
	classifier ClassifierRules
	boost      BoostRules
	retrieveK  int
	contextK   int

	// Debug aid only: the most recent assembled context. Concurrent queries
	// against one instance race on this slot (last write wins); results are
	// never derived from it. QueryResult.Context is the query-scoped copy.
	mu          sync.Mutex
	lastContext string
}

func NewAnswerUseCase(retriever *Retriever, extractor ports.SpecExtractor, opts AnswerOptions) *AnswerUseCase {
	uc := &AnswerUseCase{
		retriever:  retriever,
		extractor:  extractor,
		classifier: DefaultClassifierRules(),
		boost:      DefaultBoostRules(),
		retrieveK:  defaultRetrieveK,
		contextK:   defaultContextK,
	}
	if opts.RetrieveK > 0 {
		uc.retrieveK = opts.RetrieveK
	}
	if opts.ContextK > 0 {
		uc.contextK = opts.ContextK
	}
	if opts.ClassifierRules != nil {
		uc.classifier = *opts.ClassifierRules
	}
	if opts.BoostRules != nil {
		uc.boost = *opts.BoostRules
	}
	return uc
}

func (uc *AnswerUseCase) Answer(ctx context.Context, query string) (*domain.QueryResult, error) {
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer query", errors.New("empty query"))
	}

	// The query type selects the prompt template; retrieval breadth stays the
	// same for both types. Kept as a seam for future differentiation.
	queryType := ClassifyQuery(query, uc.classifier)

	chunks, err := uc.retriever.Retrieve(ctx, query, uc.retrieveK)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}

	ranked, err := RerankChunks(chunks, query, uc.contextK, uc.boost)
	if err != nil {
		return nil, fmt.Errorf("rerank candidates: %w", err)
	}

	contextBlock := domain.ContextString(ranked)
	uc.setLastContext(contextBlock)

	items, err := uc.extractor.Extract(ctx, query, queryType, ranked)
	if err != nil {
		return nil, fmt.Errorf("extract specs: %w", err)
	}

	return &domain.QueryResult{
		Query:     query,
		QueryType: queryType,
		Items:     domain.DedupeSpecItems(items),
		Context:   contextBlock,
	}, nil
}

// LastContext returns the context assembled by the most recent Answer call.
func (uc *AnswerUseCase) LastContext() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.lastContext
}

func (uc *AnswerUseCase) setLastContext(s string) {
	uc.mu.Lock()
	uc.lastContext = s
	uc.mu.Unlock()
}
