// Package answer implements the document-grounded answer generator:
// retrieve the nearest guide chunks, prompt the model to answer only
// from them, and report a structured found / not-found result.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// topK is the number of guide chunks supplied as context per query.
const topK = 3

// Result is the structured outcome of a grounded generation attempt.
// Found=false means the guides lack the answer and the caller should
// fall back to web search; Text is empty in that case.
type Result struct {
	Found bool
	Text  string
}

// Service generates grounded answers from the guide index.
type Service struct {
	retriever Retriever
	generator Generator
	logger    *zap.Logger
}

// New creates an answer service.
func New(retriever Retriever, generator Generator, logger *zap.Logger) *Service {
	return &Service{retriever: retriever, generator: generator, logger: logger}
}

// Answer retrieves context for the query and asks the model for an
// answer grounded strictly in it. The sentinel reply is converted to
// Result{Found: false} and never escapes to the caller's output.
func (s *Service) Answer(ctx context.Context, query string) (Result, error) {
	hits, err := s.retriever.Search(ctx, query, topK)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve context: %w", err)
	}

	text, err := s.generator.Generate(ctx, groundedPrompt(query, hits))
	if err != nil {
		return Result{}, fmt.Errorf("grounded generation: %w", err)
	}

	if isSentinel(text) {
		s.logger.Debug("Guides lack an answer", zap.String("query", query))
		return Result{Found: false}, nil
	}

	return Result{Found: true, Text: text}, nil
}
