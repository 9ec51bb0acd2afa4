package answer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// --- Mocks ---

type retryableErr struct{ msg string }

func (e *retryableErr) Error() string   { return e.msg }
func (e *retryableErr) Retryable() bool { return true }

type permanentErr struct{ msg string }

func (e *permanentErr) Error() string   { return e.msg }
func (e *permanentErr) Retryable() bool { return false }

type mockModelGen struct {
	replies map[string]string
	errs    map[string]error
	calls   []string
}

func (m *mockModelGen) Generate(_ context.Context, model, _ string) (string, error) {
	m.calls = append(m.calls, model)
	if err := m.errs[model]; err != nil {
		return "", err
	}
	return m.replies[model], nil
}

// --- Tests ---

func TestChain_PrimarySucceeds(t *testing.T) {
	llm := &mockModelGen{replies: map[string]string{"primary": "ok"}}
	chain := NewModelChain(llm, "primary", "fallback", zap.NewNop())

	text, err := chain.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Errorf("got %q", text)
	}
	if len(llm.calls) != 1 || llm.calls[0] != "primary" {
		t.Errorf("expected single primary call, got %v", llm.calls)
	}
}

func TestChain_RetryableFailureFallsBack(t *testing.T) {
	llm := &mockModelGen{
		errs:    map[string]error{"primary": &retryableErr{msg: "rate limited"}},
		replies: map[string]string{"fallback": "from older model"},
	}
	chain := NewModelChain(llm, "primary", "fallback", zap.NewNop())

	text, err := chain.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "from older model" {
		t.Errorf("got %q", text)
	}
	if len(llm.calls) != 2 || llm.calls[1] != "fallback" {
		t.Errorf("expected primary then fallback, got %v", llm.calls)
	}
}

func TestChain_PermanentFailureDoesNotRetry(t *testing.T) {
	llm := &mockModelGen{errs: map[string]error{"primary": &permanentErr{msg: "invalid request"}}}
	chain := NewModelChain(llm, "primary", "fallback", zap.NewNop())

	if _, err := chain.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if len(llm.calls) != 1 {
		t.Errorf("permanent failure must not hit the fallback model, calls: %v", llm.calls)
	}
}

func TestChain_NoFallbackConfigured(t *testing.T) {
	llm := &mockModelGen{errs: map[string]error{"primary": &retryableErr{msg: "boom"}}}
	chain := NewModelChain(llm, "primary", "", zap.NewNop())

	if _, err := chain.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if len(llm.calls) != 1 {
		t.Errorf("expected single call without a fallback, got %v", llm.calls)
	}
}

func TestChain_FallbackSameAsPrimary(t *testing.T) {
	llm := &mockModelGen{errs: map[string]error{"primary": &retryableErr{msg: "boom"}}}
	chain := NewModelChain(llm, "primary", "primary", zap.NewNop())

	if _, err := chain.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if len(llm.calls) != 1 {
		t.Errorf("identical fallback must not be retried, calls: %v", llm.calls)
	}
}

func TestChain_BothModelsFail(t *testing.T) {
	primaryErr := &retryableErr{msg: "server error"}
	llm := &mockModelGen{errs: map[string]error{
		"primary":  primaryErr,
		"fallback": &retryableErr{msg: "also down"},
	}}
	chain := NewModelChain(llm, "primary", "fallback", zap.NewNop())

	_, err := chain.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, primaryErr) {
		t.Errorf("error should wrap the primary failure, got %v", err)
	}
	if len(llm.calls) != 2 {
		t.Errorf("expected both models tried, got %v", llm.calls)
	}
}
