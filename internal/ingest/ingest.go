// Package ingest loads guide PDFs from a local folder and extracts
// per-page text for indexing.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// Parser extracts per-page text from a single guide file.
type Parser interface {
	Parse(ctx context.Context, path string) ([]domain.Document, error)
}

// Service scans a folder for guide PDFs and extracts their text.
type Service struct {
	parser Parser
	logger *zap.Logger
}

// New creates an ingestion service.
func New(parser Parser, logger *zap.Logger) *Service {
	return &Service{parser: parser, logger: logger}
}

// LoadFolder enumerates *.pdf files in folder (non-recursively) and
// extracts text from every page of every file. A file that fails to
// parse is logged and skipped. Returns domain.ErrGuidesFolderNotFound
// when the folder does not exist and domain.ErrNoGuides when no usable
// text was extracted; both are startup-blocking for the caller.
func (s *Service) LoadFolder(ctx context.Context, folder string) ([]domain.Document, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrGuidesFolderNotFound, folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read guides folder %s: %w", folder, err)
	}

	var docs []domain.Document
	var pdfFiles int
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		pdfFiles++

		path := filepath.Join(folder, entry.Name())
		pages, err := s.parser.Parse(ctx, path)
		if err != nil {
			s.logger.Warn("Skipping unparseable guide",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		var extracted int
		for _, page := range pages {
			if strings.TrimSpace(page.Text) == "" {
				continue
			}
			docs = append(docs, page)
			extracted++
		}
		s.logger.Info("Loaded guide",
			zap.String("file", entry.Name()),
			zap.Int("pages", extracted),
		)
	}

	if pdfFiles == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoGuides, folder)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %d PDFs scanned, none yielded text", domain.ErrNoGuides, pdfFiles)
	}

	return docs, nil
}
