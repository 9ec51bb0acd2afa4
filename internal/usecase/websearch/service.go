// Package websearch implements the web fallback: when the guides lack
// an answer, search the web and summarize the results for the user.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// Service answers queries from live web search results.
type Service struct {
	searcher  Searcher
	generator Generator
	logger    *zap.Logger
}

// New creates a web fallback service.
func New(searcher Searcher, generator Generator, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, generator: generator, logger: logger}
}

// Answer searches the web for the query and asks the model to
// summarize the results. Errors carry the original cause so the
// session layer can log it before surfacing the sanitized apology.
func (s *Service) Answer(ctx context.Context, query string) (string, error) {
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("web fallback search: %w", err)
	}

	text, err := s.generator.Generate(ctx, webPrompt(query, results))
	if err != nil {
		return "", fmt.Errorf("web fallback generation: %w", err)
	}
	return text, nil
}

func webPrompt(query string, results []domain.WebResult) string {
	var sb strings.Builder
	sb.WriteString("You are a customer support agent for a telecommunications company. ")
	sb.WriteString("The internal guides did not have the answer, so use these web search results.\n\nWeb results:\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s (%s)\n%s\n\n", i+1, r.Title, r.URL, r.Content)
	}
	sb.WriteString("Customer question: ")
	sb.WriteString(query)
	sb.WriteString("\n\nAnswer helpfully and summarize the best options.")
	return sb.String()
}
