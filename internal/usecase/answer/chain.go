package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
)

// ModelChain generates with the primary model and retries exactly once
// against an older compatibility model when the failure is retryable
// (rate limit, server error, transport failure). Invalid requests are
// not retried: they cannot succeed on an older model either.
type ModelChain struct {
	llm      ModelGenerator
	model    string
	fallback string
	logger   *zap.Logger
}

// NewModelChain creates a primary/fallback model chain.
func NewModelChain(llm ModelGenerator, model, fallback string, logger *zap.Logger) *ModelChain {
	return &ModelChain{llm: llm, model: model, fallback: fallback, logger: logger}
}

// Generate implements Generator.
func (c *ModelChain) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.llm.Generate(ctx, c.model, prompt)
	if err == nil {
		return text, nil
	}

	if c.fallback == "" || c.fallback == c.model || !domain.IsRetryable(err) {
		return "", fmt.Errorf("generate with %s: %w", c.model, err)
	}

	c.logger.Warn("Primary model failed, retrying with fallback model",
		zap.String("model", c.model),
		zap.String("fallback_model", c.fallback),
		zap.Error(err),
	)

	text, ferr := c.llm.Generate(ctx, c.fallback, prompt)
	if ferr != nil {
		// Surface the primary failure: it is the one worth reporting.
		return "", fmt.Errorf("generate with %s (fallback %s also failed: %v): %w",
			c.model, c.fallback, ferr, err)
	}
	return text, nil
}
