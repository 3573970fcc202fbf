// Package httpadapter exposes the ingestion and query pipeline over HTTP.
package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
	"github.com/Gaurav5289/rag-spec-extraction/internal/observability/metrics"
)

const serviceName = "api"

// TrafficLimits gates the public surface. Zero values disable the gate.
type TrafficLimits struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
}

type Router struct {
	ingest  ports.ManualIngestor
	reader  ports.ManualReader
	query   ports.SpecQueryService
	metrics *metrics.APIMetrics
	limits  TrafficLimits
}

func NewRouter(
	ingest ports.ManualIngestor,
	reader ports.ManualReader,
	query ports.SpecQueryService,
	apiMetrics *metrics.APIMetrics,
	limits TrafficLimits,
) *Router {
	return &Router{
		ingest:  ingest,
		reader:  reader,
		query:   query,
		metrics: apiMetrics,
		limits:  limits,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/manuals", rt.uploadManual)
	mux.HandleFunc("/v1/manuals/", rt.getManualByID)
	mux.HandleFunc("/v1/query", rt.querySpecs)
	mux.HandleFunc("/v1/query/export", rt.exportSpecs)
	mux.HandleFunc("/v1/debug/context", rt.debugContext)

	var handler http.Handler = mux
	if rt.limits.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.limits.MaxInFlight, backpressureWait)
	}
	if rt.limits.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.limits.RateLimitRPS, rt.limits.RateLimitBurst)
	}
	handler = metricsMiddleware(handler, rt.metrics)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadManual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	manual, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, manual)
}

func (rt *Router) getManualByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/manuals/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "manual id is required")
		return
	}

	manual, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, manual)
}

type queryRequest struct {
	Query          string `json:"query"`
	IncludeContext bool   `json:"include_context"`
}

type queryResponse struct {
	Query     string            `json:"query"`
	QueryType domain.QueryType  `json:"query_type"`
	Items     []domain.SpecItem `json:"items"`
	Context   string            `json:"context,omitempty"`
	Note      string            `json:"note,omitempty"`
}

func (rt *Router) querySpecs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	result, err := rt.runQuery(r.Context(), req.Query)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	resp := queryResponse{
		Query:     result.Query,
		QueryType: result.QueryType,
		Items:     result.Items,
		Note:      result.Note,
	}
	if req.IncludeContext {
		resp.Context = result.Context
	}
	writeJSON(w, http.StatusOK, resp)
}

// annotatedResult is a pipeline result plus an operator-facing note for the
// degraded parse-failure path.
type annotatedResult struct {
	domain.QueryResult
	Note string
}

// runQuery executes the pipeline and folds model parse failures into an empty,
// annotated result instead of a client-visible error.
func (rt *Router) runQuery(ctx context.Context, query string) (*annotatedResult, error) {
	start := time.Now()
	result, err := rt.query.Answer(ctx, query)
	queryType := domain.QueryTypeGeneral
	contextChunks, items := 0, 0
	if result != nil {
		queryType = result.QueryType
		contextChunks = strings.Count(result.Context, "--- CHUNK ")
		items = len(result.Items)
	}
	rt.metrics.ObserveQuery(serviceName, string(queryType), time.Since(start), contextChunks, items, err)

	if err != nil {
		if domain.IsKind(err, domain.ErrExtractionParse) {
			rt.metrics.QueryParseFailure(serviceName)
			return &annotatedResult{
				QueryResult: domain.QueryResult{
					Query:     query,
					QueryType: domain.QueryTypeGeneral,
					Items:     []domain.SpecItem{},
				},
				Note: "model response could not be parsed; no specifications extracted",
			}, nil
		}
		return nil, err
	}
	if result.Items == nil {
		result.Items = []domain.SpecItem{}
	}
	return &annotatedResult{QueryResult: *result}, nil
}

func (rt *Router) debugContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"last_context": rt.query.LastContext()})
}

func decodeQueryRequest(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
