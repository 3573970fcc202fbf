package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Policy{MaxAttempts: 1, BreakerEnabled: false})
}

func generateServer(t *testing.T, response string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Prompt string `json:"prompt"`
			Format string `json:"format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("expected format=json, got %q", req.Format)
		}
		if capture != nil {
			*capture = req.Prompt
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}))
}

func scored(text string, page int, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk:       domain.Chunk{Text: text, Page: page, Section: "210-00"},
		HybridScore: score,
	}
}

func TestExtractParsesSpecs(t *testing.T) {
	response := `{"specs": [
		{"component": "Brake Caliper Bolt", "value": "35", "unit": "Nm", "page": 112, "raw_text": "Tighten to 35 Nm.", "part_number": "W701234"},
		{"component": "Drain Plug", "value": 28, "unit": "Nm", "page": "113", "raw_text": "Torque 28 Nm."}
	]}`
	var prompt string
	server := generateServer(t, response, &prompt)
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))
	chunks := []domain.ScoredChunk{scored("Tighten to 35 Nm.", 112, 0.91)}

	items, err := extractor.Extract(context.Background(), "caliper bolt torque", domain.QueryTypeSpec, chunks)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Component != "Brake Caliper Bolt" || items[0].PartNumber != "W701234" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Value != "28" || items[1].Page != 113 {
		t.Fatalf("numeric fields not coerced: %+v", items[1])
	}
	if items[1].PartNumber != "" {
		t.Fatalf("missing part_number should stay empty, got %q", items[1].PartNumber)
	}

	if !strings.Contains(prompt, "caliper bolt torque") {
		t.Fatalf("prompt missing query: %q", prompt)
	}
	if !strings.Contains(prompt, "--- CHUNK 1 | Page 112 | Section=210-00 | Score=0.91 ---") {
		t.Fatalf("prompt missing tagged context block: %q", prompt)
	}
}

func TestExtractDropsIncompleteItems(t *testing.T) {
	response := `{"specs": [
		{"component": "Oil Capacity", "value": "5.7", "unit": "L"},
		{"component": "", "value": "10", "unit": "mm"},
		{"component": "Gap", "value": ""}
	]}`
	server := generateServer(t, response, nil)
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))

	items, err := extractor.Extract(context.Background(), "oil capacity", domain.QueryTypeSpec, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(items) != 1 || items[0].Component != "Oil Capacity" {
		t.Fatalf("expected only the complete item, got %+v", items)
	}
}

func TestExtractRecoversEmbeddedJSON(t *testing.T) {
	cases := map[string]string{
		"object in prose": "Here are the specs:\n{\"specs\": [{\"component\": \"Plug Gap\", \"value\": \"1.1\", \"unit\": \"mm\"}]}\nDone.",
		"bare array":      `[{"component": "Plug Gap", "value": "1.1", "unit": "mm"}]`,
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			server := generateServer(t, response, nil)
			defer server.Close()

			extractor := NewExtractor(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))
			items, err := extractor.Extract(context.Background(), "plug gap", domain.QueryTypeSpec, nil)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(items) != 1 || items[0].Component != "Plug Gap" {
				t.Fatalf("unexpected items %+v", items)
			}
		})
	}
}

func TestExtractParseErrorCarriesRawResponse(t *testing.T) {
	server := generateServer(t, "the torque is thirty five newton meters", nil)
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))
	_, err := extractor.Extract(context.Background(), "torque", domain.QueryTypeSpec, nil)
	if !domain.IsKind(err, domain.ErrExtractionParse) {
		t.Fatalf("expected parse error kind, got %v", err)
	}
	raw, ok := domain.RawResponse(err)
	if !ok || !strings.Contains(raw, "thirty five") {
		t.Fatalf("raw response not preserved: %q %v", raw, ok)
	}
}

func TestExtractServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusBadGateway)
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))
	_, err := extractor.Extract(context.Background(), "torque", domain.QueryTypeSpec, nil)
	if !domain.IsKind(err, domain.ErrExtractionService) {
		t.Fatalf("expected service error kind, got %v", err)
	}
}

func TestEmbedReturnsVectorPerText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		vectors := make([][]float32, len(req.Input))
		for i := range vectors {
			vectors[i] = []float32{float32(i), 0.5}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": vectors})
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))
	vectors, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || len(vectors[0]) != 2 {
		t.Fatalf("unexpected vectors %v", vectors)
	}

	single, err := embedder.EmbedQuery(context.Background(), "a")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(single) != 2 {
		t.Fatalf("unexpected query vector %v", single)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{0.1}}})
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "llama3", "nomic-embed-text", testExecutor()))
	if _, err := embedder.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
