package domain

import (
	"errors"
	"fmt"
)

var (
	ErrManualNotFound = errors.New("manual not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrTemporary      = errors.New("temporary failure")

	// ErrRetrieval: vector index unavailable or not built. Fatal to the query.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrScoring: reranking ran on chunks without a source score. Indicates a
	// programming error in the orchestration, not an operational failure.
	ErrScoring = errors.New("scoring invariant violated")
	// ErrExtractionParse: the model responded but its output was not the
	// required structure. The raw payload travels with a *ParseError.
	ErrExtractionParse = errors.New("extraction output unparseable")
	// ErrExtractionService: the model call itself failed.
	ErrExtractionService = errors.New("extraction service failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ParseError carries the raw model response for diagnosis when structured
// output could not be parsed.
type ParseError struct {
	Raw    string
	Reason error
}

func (e *ParseError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%v: %v", ErrExtractionParse, e.Reason)
	}
	return ErrExtractionParse.Error()
}

func (e *ParseError) Unwrap() error { return ErrExtractionParse }

// RawResponse extracts the offending model payload from an error chain, if
// present.
func RawResponse(err error) (string, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Raw, true
	}
	return "", false
}
