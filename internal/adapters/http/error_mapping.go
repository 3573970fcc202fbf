package httpadapter

import (
	"net/http"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrManualNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrRetrieval),
		domain.IsKind(err, domain.ErrExtractionService),
		domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
