package domain

import (
	"fmt"
	"strings"
)

// QueryType steers prompt selection downstream. Retrieval breadth is the same
// for both types today; the classifier output is kept as a seam for future
// differentiation.
type QueryType string

const (
	QueryTypeSpec    QueryType = "spec"
	QueryTypeGeneral QueryType = "general"
)

// Chunk is the unit of retrieval: a bounded span of manual text plus its
// page/section metadata. SourceScore is the semantic similarity attached by
// the retriever; it is nil until retrieval has run.
type Chunk struct {
	ID          string   `json:"id"`
	ManualID    string   `json:"manual_id"`
	Text        string   `json:"text"`
	Page        int      `json:"page"`
	Section     string   `json:"section,omitempty"`
	ChunkIndex  int      `json:"chunk_index"`
	SourceScore *float64 `json:"source_score,omitempty"`
}

// ScoredChunk is a chunk with its final hybrid relevance score. Produced only
// by the reranker and not mutated afterwards.
type ScoredChunk struct {
	Chunk
	HybridScore float64 `json:"hybrid_score"`
}

// IndexHit is one nearest-neighbor result from the vector index. The retriever
// turns hits into chunks with SourceScore set.
type IndexHit struct {
	Chunk Chunk
	Score float64
}

// QueryResult carries everything one pipeline run produced. Context is
// query-scoped here on purpose: sharing it through orchestrator state would
// race under concurrent queries.
type QueryResult struct {
	Query     string     `json:"query"`
	QueryType QueryType  `json:"query_type"`
	Items     []SpecItem `json:"items"`
	Context   string     `json:"context,omitempty"`
}

// ContextString renders ranked chunks into the single tagged block handed to
// the extraction model. Concatenation order is the ranked order; what the
// model sees first is a deliberate priority bias.
func ContextString(chunks []ScoredChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- CHUNK %d | Page %d | Section=%s | Score=%.2f ---\n%s",
			i+1, c.Page, c.Section, c.HybridScore, strings.TrimSpace(c.Text))
	}
	return b.String()
}
