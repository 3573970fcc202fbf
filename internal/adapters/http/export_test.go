package httpadapter

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

func TestExportSpecsProducesWorkbook(t *testing.T) {
	query := &queryServiceFake{
		result: &domain.QueryResult{
			Query:     "caliper bolt torque",
			QueryType: domain.QueryTypeSpec,
			Items: []domain.SpecItem{
				{Component: "Brake Caliper Bolt", Value: "35", Unit: "Nm", Page: 112, RawText: "Tighten to 35 Nm.", PartNumber: "W701234"},
				{Component: "Oil Capacity", Value: "5.7", Unit: "L", Page: 88},
			},
		},
	}
	handler := newTestRouter(query, nil, nil, TrafficLimits{})

	res := postJSONRequest(t, handler, "/v1/query/export", map[string]any{"query": "caliper bolt torque"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if ct := res.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(res.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Component" {
		t.Fatalf("unexpected header row %v", rows[0])
	}
	if rows[1][0] != "Brake Caliper Bolt" || rows[1][3] != "112" {
		t.Fatalf("unexpected data row %v", rows[1])
	}
}

func TestExportRejectsBlankQuery(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, TrafficLimits{})
	res := postJSONRequest(t, handler, "/v1/query/export", map[string]any{"query": ""})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
