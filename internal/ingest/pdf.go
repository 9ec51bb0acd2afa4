package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// PDFParser extracts plain text from PDF files, one Document per page.
type PDFParser struct{}

// NewPDFParser creates a PDF parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse implements Parser.
func (p *PDFParser) Parse(ctx context.Context, path string) ([]domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	source := filepath.Base(path)
	total := reader.NumPage()
	docs := make([]domain.Document, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse pdf %s: %w", path, err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not sink the whole guide.
			continue
		}

		docs = append(docs, domain.Document{
			SourceFile: source,
			Page:       i,
			Text:       text,
		})
	}

	return docs, nil
}
