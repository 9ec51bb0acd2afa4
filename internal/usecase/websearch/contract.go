package websearch

import (
	"context"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// Searcher runs a bounded web search for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.WebResult, error)
}

// Generator produces text for a fully built prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
