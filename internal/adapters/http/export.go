package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

const exportSheet = "Specifications"

func (rt *Router) exportSpecs(w http.ResponseWriter, r *http.Request) {
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

	workbook, err := buildSpecWorkbook(result.Query, result.Items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "build workbook: "+err.Error())
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="specifications.xlsx"`)
	if err := workbook.Write(w); err != nil {
		// Headers are already sent; nothing left to do but log via middleware.
		return
	}
}

func buildSpecWorkbook(query string, items []domain.SpecItem) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"Component", "Value", "Unit", "Page", "Part Number", "Source Text", "Query"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		values := []any{item.Component, item.Value, item.Unit, item.Page, item.PartNumber, item.RawText, query}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "F", "G", 48); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	return f, nil
}
