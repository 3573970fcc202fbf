package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/observability/metrics"
)

type queryServiceFake struct {
	result      *domain.QueryResult
	err         error
	lastContext string
	gotQuery    string
}

func (f *queryServiceFake) Answer(_ context.Context, query string) (*domain.QueryResult, error) {
	f.gotQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *queryServiceFake) LastContext() string { return f.lastContext }

type ingestorFake struct {
	manual *domain.Manual
	err    error
}

func (f *ingestorFake) Upload(_ context.Context, filename, mimeType string, _ io.Reader) (*domain.Manual, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := *f.manual
	m.Filename = filename
	m.MimeType = mimeType
	return &m, nil
}

type readerFake struct {
	manual *domain.Manual
	err    error
}

func (f *readerFake) GetByID(_ context.Context, _ string) (*domain.Manual, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.manual, nil
}

func newTestRouter(query *queryServiceFake, ingest *ingestorFake, reader *readerFake, limits TrafficLimits) http.Handler {
	if query == nil {
		query = &queryServiceFake{result: &domain.QueryResult{}}
	}
	if ingest == nil {
		ingest = &ingestorFake{manual: &domain.Manual{ID: "m1", Status: domain.StatusUploaded}}
	}
	if reader == nil {
		reader = &readerFake{manual: &domain.Manual{ID: "m1", Status: domain.StatusReady}}
	}
	return NewRouter(ingest, reader, query, metrics.NewAPIMetrics(serviceName), limits).Handler()
}

func postJSONRequest(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestQueryReturnsSpecItems(t *testing.T) {
	query := &queryServiceFake{
		result: &domain.QueryResult{
			Query:     "caliper bolt torque",
			QueryType: domain.QueryTypeSpec,
			Items: []domain.SpecItem{
				{Component: "Brake Caliper Bolt", Value: "35", Unit: "Nm", Page: 112},
			},
			Context: "--- CHUNK 1 | Page 112 | Section=206-03 | Score=0.91 ---\nTighten to 35 Nm.",
		},
	}
	handler := newTestRouter(query, nil, nil, TrafficLimits{})

	res := postJSONRequest(t, handler, "/v1/query", map[string]any{"query": "caliper bolt torque"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp queryResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.QueryType != domain.QueryTypeSpec || len(resp.Items) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Context != "" {
		t.Fatalf("context should be omitted unless requested, got %q", resp.Context)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestQueryIncludesContextOnRequest(t *testing.T) {
	query := &queryServiceFake{
		result: &domain.QueryResult{
			Query:     "q",
			QueryType: domain.QueryTypeSpec,
			Context:   "ctx",
		},
	}
	handler := newTestRouter(query, nil, nil, TrafficLimits{})

	res := postJSONRequest(t, handler, "/v1/query", map[string]any{"query": "q", "include_context": true})
	var resp queryResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Context != "ctx" {
		t.Fatalf("expected context in response, got %+v", resp)
	}
}

func TestQueryParseFailureDegradesToEmptyResult(t *testing.T) {
	query := &queryServiceFake{err: &domain.ParseError{Raw: "not json"}}
	handler := newTestRouter(query, nil, nil, TrafficLimits{})

	res := postJSONRequest(t, handler, "/v1/query", map[string]any{"query": "torque"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for parse failure, got %d", res.Code)
	}
	var resp queryResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 0 || resp.Note == "" {
		t.Fatalf("expected empty items with note, got %+v", resp)
	}
	if strings.Contains(resp.Note, "not json") {
		t.Fatalf("raw model output must not leak to clients: %q", resp.Note)
	}
}

func TestQueryErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"retrieval down", domain.WrapError(domain.ErrRetrieval, "search index", errors.New("conn refused")), http.StatusServiceUnavailable},
		{"extraction service down", domain.WrapError(domain.ErrExtractionService, "generate specs", errors.New("502")), http.StatusServiceUnavailable},
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "answer", errors.New("empty")), http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestRouter(&queryServiceFake{err: tc.err}, nil, nil, TrafficLimits{})
			res := postJSONRequest(t, handler, "/v1/query", map[string]any{"query": "torque"})
			if res.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, res.Code)
			}
		})
	}
}

func TestQueryRejectsBlankQuery(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, TrafficLimits{})
	res := postJSONRequest(t, handler, "/v1/query", map[string]any{"query": "   "})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestDebugContextExposesLastContext(t *testing.T) {
	query := &queryServiceFake{result: &domain.QueryResult{}, lastContext: "--- CHUNK 1 ---"}
	handler := newTestRouter(query, nil, nil, TrafficLimits{})

	req := httptest.NewRequest(http.MethodGet, "/v1/debug/context", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["last_context"] != "--- CHUNK 1 ---" {
		t.Fatalf("unexpected debug context %q", resp["last_context"])
	}
}

func TestUploadManualAccepted(t *testing.T) {
	handler := newTestRouter(nil, &ingestorFake{manual: &domain.Manual{ID: "m1", Status: domain.StatusUploaded}}, nil, TrafficLimits{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "focus_2012.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/manuals", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var manual domain.Manual
	if err := json.Unmarshal(res.Body.Bytes(), &manual); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if manual.Filename != "focus_2012.pdf" || manual.Status != domain.StatusUploaded {
		t.Fatalf("unexpected manual %+v", manual)
	}
}

func TestUploadManualWithoutFileRejected(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, TrafficLimits{})
	res := postJSONRequest(t, handler, "/v1/manuals", map[string]string{"not": "a file"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGetManualMapsNotFound(t *testing.T) {
	reader := &readerFake{err: domain.WrapError(domain.ErrManualNotFound, "fetch manual", errors.New("id missing"))}
	handler := newTestRouter(nil, nil, reader, TrafficLimits{})

	req := httptest.NewRequest(http.MethodGet, "/v1/manuals/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, TrafficLimits{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}
