package chunking

import (
	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// ManualChunker splits extracted pages into chunks, carrying each page's
// number and section code onto every chunk cut from it. ChunkIndex runs
// across the whole manual so ordering survives indexing.
type ManualChunker struct {
	splitter *Splitter
}

func NewManualChunker(chunkSize, overlap int) *ManualChunker {
	return &ManualChunker{splitter: NewSplitter(chunkSize, overlap)}
}

func (c *ManualChunker) SplitPages(pages []domain.ManualPage) []domain.Chunk {
	var chunks []domain.Chunk
	index := 0
	for _, page := range pages {
		for _, text := range c.splitter.Split(page.Text) {
			chunks = append(chunks, domain.Chunk{
				Text:       text,
				Page:       page.Number,
				Section:    page.Section,
				ChunkIndex: index,
			})
			index++
		}
	}
	return chunks
}
