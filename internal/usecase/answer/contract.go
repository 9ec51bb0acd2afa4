package answer

import (
	"context"

	"github.com/kailas-cloud/guidechat/internal/index"
)

// Retriever returns the nearest guide chunks for a query.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]index.Hit, error)
}

// Generator produces text for a fully built prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelGenerator produces text for a prompt against a named model.
type ModelGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}
