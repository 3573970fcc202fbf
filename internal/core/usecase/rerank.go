package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// Weighting between the semantic similarity and the lexical boost. Fixed
// design constants: semantic signal dominates, lexical evidence breaks
// near-ties and recovers exact-term matches the embedding underweights.
const (
	semanticWeight = 0.70
	boostWeight    = 0.30
)

// BoostRules drives the lexical side of the hybrid score.
type BoostRules struct {
	// Keywords each contribute KeywordIncrement on a case-insensitive
	// substring hit.
	Keywords         []string
	KeywordIncrement float64
	// OverlapWeight scales the query/chunk token-overlap ratio.
	OverlapWeight float64
	// TorqueTerms mark a query as torque-related; TorqueUnits mark chunk-side
	// torque units. When a torque-related query meets a chunk holding both a
	// torque unit and "bolt", ConjunctiveBonus applies once. The individual
	// keyword hits do not stack into this bonus.
	TorqueTerms      []string
	TorqueUnits      []string
	ConjunctiveBonus float64
}

func DefaultBoostRules() BoostRules {
	return BoostRules{
		Keywords: []string{
			"nm", "lb-ft", "ft-lb", "in-lb", "psi", "bar",
			"torque", "bolt", "caliper", "capacity", "clearance", "pressure",
		},
		KeywordIncrement: 0.10,
		OverlapWeight:    0.50,
		TorqueTerms:      []string{"torque", "tighten", "tightening"},
		TorqueUnits:      []string{"nm", "n·m", "lb-ft", "ft-lb", "in-lb"},
		ConjunctiveBonus: 0.25,
	}
}

// RerankChunks blends semantic similarity with lexical signals, reorders, and
// truncates to topK. The sort is stable: chunks with equal hybrid scores keep
// their retrieval order. Chunks without a source score mean retrieval never
// ran, which is ErrScoring.
func RerankChunks(chunks []domain.Chunk, query string, topK int, rules BoostRules) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "rerank", errors.New("topK must be positive"))
	}

	queryLower := strings.ToLower(query)
	queryTokens := tokenSet(query)
	queryTorque := containsAny(queryLower, rules.TorqueTerms)

	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for i, chunk := range chunks {
		if chunk.SourceScore == nil {
			return nil, domain.WrapError(domain.ErrScoring, "rerank",
				fmt.Errorf("chunk %d (page %d) has no source score", i, chunk.Page))
		}
		boost := lexicalBoost(chunk.Text, queryTokens, queryTorque, rules)
		scored = append(scored, domain.ScoredChunk{
			Chunk:       chunk,
			HybridScore: semanticWeight**chunk.SourceScore + boostWeight*boost,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].HybridScore > scored[j].HybridScore
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

// lexicalBoost is in [0,1]: keyword hits plus proportional token overlap plus
// the single conjunctive torque/bolt bonus, clamped.
func lexicalBoost(text string, queryTokens map[string]struct{}, queryTorque bool, rules BoostRules) float64 {
	textLower := strings.ToLower(text)

	boost := 0.0
	for _, keyword := range rules.Keywords {
		if keyword != "" && strings.Contains(textLower, keyword) {
			boost += rules.KeywordIncrement
		}
	}

	boost += rules.OverlapWeight * tokenOverlap(queryTokens, tokenSet(text))

	if queryTorque && containsAny(textLower, rules.TorqueUnits) && strings.Contains(textLower, "bolt") {
		boost += rules.ConjunctiveBonus
	}

	if boost > 1.0 {
		boost = 1.0
	}
	return boost
}

func tokenOverlap(query, chunk map[string]struct{}) float64 {
	if len(query) == 0 || len(chunk) == 0 {
		return 0
	}
	matches := 0
	for token := range query {
		if _, ok := chunk[token]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{}, 16)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
