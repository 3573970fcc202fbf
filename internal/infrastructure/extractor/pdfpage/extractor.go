// Package pdfpage extracts per-page text from stored PDF manuals. Pages keep
// their 1-based number; the section code of the most recent heading carries
// forward until the next heading appears.
package pdfpage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/ports"
)

// Matches service manual section codes like "SECTION 206-03" or "SECTION 303-01A".
var sectionPattern = regexp.MustCompile(`(?i)SECTION\s+(\d{3}-\d{2}[A-Z]?)`)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) ExtractPages(ctx context.Context, m *domain.Manual) ([]domain.ManualPage, error) {
	reader, err := e.storage.Open(ctx, m.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source manual: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source manual: %w", err)
	}

	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", m.Filename, err)
	}

	pages := make([]domain.ManualPage, 0, doc.NumPage())
	section := ""
	for number := 1; number <= doc.NumPage(); number++ {
		page := doc.Page(number)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages rather than failing the whole manual.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if match := sectionPattern.FindStringSubmatch(text); match != nil {
			section = strings.ToUpper(match[1])
		}

		pages = append(pages, domain.ManualPage{
			Number:  number,
			Text:    text,
			Section: section,
		})
	}
	return pages, nil
}
