package openai

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// ProviderError wraps a language model API failure with enough detail
// to decide whether a fallback-model attempt is worth making.
type ProviderError struct {
	Model      string
	StatusCode int // 0 for transport-level failures
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm %s: API error %d: %s", e.Model, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm %s: %s", e.Model, e.Message)
}

// Unwrap maps to the domain sentinel: 429 is a distinct rate-limit
// condition, everything else is a generic provider error.
func (e *ProviderError) Unwrap() error {
	if e.StatusCode == 429 {
		return domain.ErrLLMRateLimited
	}
	return domain.ErrLLMProviderError
}

// Retryable reports whether the same request may succeed elsewhere:
// rate limits, timeouts, server errors, and transport failures do;
// invalid requests do not — an older model cannot fix a bad request.
func (e *ProviderError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == 408 || e.StatusCode == 429:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// parseLLMError converts a go-openai error into a ProviderError.
func parseLLMError(model string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Model:      model,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Model:      model,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    string(reqErr.Body),
			Err:        err,
		}
	}

	return &ProviderError{Model: model, Message: err.Error(), Err: err}
}

// parseEmbeddingError wraps embedding API failures with the domain sentinel.
func parseEmbeddingError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrEmbeddingProviderError)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrEmbeddingProviderError)
	}

	return fmt.Errorf("embedding request failed: %w", domain.ErrEmbeddingProviderError)
}
