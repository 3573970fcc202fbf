package domain

import "time"

type ManualStatus string

const (
	StatusUploaded ManualStatus = "uploaded"
	StatusIndexing ManualStatus = "indexing"
	StatusReady    ManualStatus = "ready"
	StatusFailed   ManualStatus = "failed"
)

// Manual is an uploaded service-manual PDF and its indexing state.
type Manual struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	MimeType    string       `json:"mime_type"`
	StoragePath string       `json:"storage_path"`
	Status      ManualStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	PageCount   int          `json:"page_count,omitempty"`
	ChunkCount  int          `json:"chunk_count,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ManualPage is one page of extracted text, as produced by the PDF extractor.
type ManualPage struct {
	Number  int
	Text    string
	Section string
}
