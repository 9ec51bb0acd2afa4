package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
	"github.com/kailas-cloud/guidechat/internal/metrics"
)

// LLM is a chat-completion client for an OpenAI-compatible API.
// The model is chosen per call so the answer pipeline can retry a
// failed generation against an older compatibility model.
type LLM struct {
	client  *openai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// LLMConfig holds the language model provider settings.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewLLM creates an OpenAI-compatible chat completion client.
func NewLLM(cfg *LLMConfig) *LLM {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &LLM{
		client:  openai.NewClientWithConfig(clientCfg),
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Generate sends a single-turn prompt to the given model and returns
// the generated text. The call runs under the configured timeout so a
// hung provider cannot block a session indefinitely.
func (l *LLM) Generate(ctx context.Context, model, prompt string) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(model, "error").Inc()
		return "", parseLLMError(model, err)
	}

	metrics.LLMRequestsTotal.WithLabelValues(model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(model).Observe(duration.Seconds())

	if resp.Usage.PromptTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (l *LLM) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := l.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
