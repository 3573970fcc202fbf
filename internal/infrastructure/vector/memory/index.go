// Package memory provides a process-local vector index for development and
// tests. Search is brute-force cosine similarity over everything indexed so
// far.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

type Index struct {
	mu      sync.RWMutex
	entries []entry
}

func NewIndex() *Index {
	return &Index{}
}

func (i *Index) IndexChunks(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d vs %d", len(chunks), len(vectors))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx, chunk := range chunks {
		i.entries = append(i.entries, entry{chunk: chunk, vector: vectors[idx]})
	}
	return nil
}

func (i *Index) Search(_ context.Context, queryVector []float32, limit int) ([]domain.IndexHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.entries) == 0 {
		return nil, fmt.Errorf("index not built")
	}

	hits := make([]domain.IndexHit, 0, len(i.entries))
	for _, e := range i.entries {
		hits = append(hits, domain.IndexHit{
			Chunk: e.chunk,
			Score: cosineSimilarity(queryVector, e.vector),
		})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
