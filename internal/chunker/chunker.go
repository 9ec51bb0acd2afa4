// Package chunker splits extracted guide text into overlapping
// fixed-size windows used as retrieval units.
package chunker

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

const (
	defaultSize    = 1000
	defaultOverlap = 200
)

// Chunker produces overlapping character windows over document text.
// Output is deterministic for identical input and configuration.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. Non-positive size or overlap fall back to the
// defaults; overlap is clamped below size so every step makes progress.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = defaultSize
	}
	if overlap <= 0 {
		overlap = defaultOverlap
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{size: size, overlap: overlap}
}

// Chunk splits every document into windows of at most size runes with
// the configured overlap between neighbors. Pages are chunked
// independently so chunk IDs stay stable per source page.
func (c *Chunker) Chunk(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, c.chunkDocument(doc)...)
	}
	return chunks
}

func (c *Chunker) chunkDocument(doc domain.Document) []domain.Chunk {
	runes := []rune(doc.Text)
	var chunks []domain.Chunk

	idx := 0
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         fmt.Sprintf("%s#%d:%d", doc.SourceFile, doc.Page, idx),
				SourceFile: doc.SourceFile,
				Page:       doc.Page,
				Text:       text,
			})
			idx++
		}

		if end == len(runes) {
			break
		}
		start = end - c.overlap
	}

	return chunks
}
