package domain

import "errors"

var (
	// ErrGuidesFolderNotFound signals a missing guides folder at startup.
	ErrGuidesFolderNotFound = errors.New("guides folder not found")
	// ErrNoGuides signals that the guides folder holds no usable PDFs.
	ErrNoGuides = errors.New("no PDF guides found")
	// ErrSessionNotFound signals an unknown session identifier.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a language model provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrLLMRateLimited signals a rate-limited or temporarily unavailable model.
	// Wrapped errors carrying it are worth a retry against the fallback model.
	ErrLLMRateLimited = errors.New("llm rate limited")
	// ErrWebSearchError signals a web search provider failure.
	ErrWebSearchError = errors.New("web search error")
)

// RetryableError lets transport errors report whether a second attempt
// (against the fallback model) can possibly succeed.
type RetryableError interface {
	Retryable() bool
}

// IsRetryable reports whether err carries a RetryableError in its chain
// that allows a retry. Errors without the interface are not retried.
func IsRetryable(err error) bool {
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return false
}
