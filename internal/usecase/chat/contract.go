package chat

import (
	"context"

	"github.com/kailas-cloud/guidechat/internal/usecase/answer"
)

// Answerer generates a grounded answer from the guide index.
type Answerer interface {
	Answer(ctx context.Context, query string) (answer.Result, error)
}

// WebFallback answers from live web search when the guides cannot.
type WebFallback interface {
	Answer(ctx context.Context, query string) (string, error)
}
