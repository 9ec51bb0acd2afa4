package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
	"github.com/kailas-cloud/guidechat/internal/usecase/answer"
)

// --- Mocks ---

type mockAnswerer struct {
	res    answer.Result
	err    error
	called bool
}

func (m *mockAnswerer) Answer(_ context.Context, _ string) (answer.Result, error) {
	m.called = true
	return m.res, m.err
}

type mockFallback struct {
	text   string
	err    error
	calls  int
	lastQ  string
}

func (m *mockFallback) Answer(_ context.Context, query string) (string, error) {
	m.calls++
	m.lastQ = query
	return m.text, m.err
}

func newService(a *mockAnswerer, f *mockFallback) *Service {
	return New(a, f, zap.NewNop())
}

// --- Tests ---

func TestCreate_SeedsGreeting(t *testing.T) {
	svc := newService(&mockAnswerer{}, &mockFallback{})

	sess := svc.Create(context.Background())
	if sess.ID == "" {
		t.Fatal("expected a session id")
	}
	if len(sess.Messages) != 1 {
		t.Fatalf("expected exactly one seeded message, got %d", len(sess.Messages))
	}
	if sess.Messages[0].Role != domain.RoleAI {
		t.Errorf("greeting role must be ai, got %q", sess.Messages[0].Role)
	}
	if sess.Messages[0].Content != Greeting {
		t.Errorf("unexpected greeting: %q", sess.Messages[0].Content)
	}
}

func TestGet_UnknownSession(t *testing.T) {
	svc := newService(&mockAnswerer{}, &mockFallback{})

	_, err := svc.Get(context.Background(), "no-such-id")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmit_GroundedAnswer(t *testing.T) {
	ans := &mockAnswerer{res: answer.Result{Found: true, Text: "The 5G Max package costs $30."}}
	fb := &mockFallback{}
	svc := newService(ans, fb)
	sess := svc.Create(context.Background())

	reply, err := svc.Submit(context.Background(), sess.ID, "how much is 5G Max?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Role != domain.RoleAI {
		t.Errorf("reply role must be ai, got %q", reply.Role)
	}
	if reply.Content != "The 5G Max package costs $30." {
		t.Errorf("grounded answer must pass through verbatim, got %q", reply.Content)
	}
	if fb.calls != 0 {
		t.Error("fallback must not run when the guides have the answer")
	}

	got, err := svc.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// greeting + human + ai
	if len(got.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got.Messages))
	}
	if got.Messages[1].Role != domain.RoleHuman || got.Messages[1].Content != "how much is 5G Max?" {
		t.Errorf("human message not recorded: %+v", got.Messages[1])
	}
}

func TestSubmit_NotFoundTriggersFallbackOnce(t *testing.T) {
	ans := &mockAnswerer{res: answer.Result{Found: false}}
	fb := &mockFallback{text: "According to current offers, try the 5G Max plan."}
	svc := newService(ans, fb)
	sess := svc.Create(context.Background())

	reply, err := svc.Submit(context.Background(), sess.ID, "best prepaid plan?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.calls != 1 {
		t.Fatalf("expected exactly one fallback call, got %d", fb.calls)
	}
	if fb.lastQ != "best prepaid plan?" {
		t.Errorf("fallback got query %q", fb.lastQ)
	}
	if reply.Content != fb.text {
		t.Errorf("got %q", reply.Content)
	}
	if strings.Contains(reply.Content, answer.Sentinel) {
		t.Error("sentinel must never surface to the user")
	}
}

func TestSubmit_FallbackFailureYieldsApology(t *testing.T) {
	ans := &mockAnswerer{res: answer.Result{Found: false}}
	fb := &mockFallback{err: errors.New("search api down")}
	svc := newService(ans, fb)
	sess := svc.Create(context.Background())

	reply, err := svc.Submit(context.Background(), sess.ID, "anything")
	if err != nil {
		t.Fatalf("submit itself must not fail: %v", err)
	}
	if reply.Content != Apology {
		t.Errorf("expected the fixed apology, got %q", reply.Content)
	}
	if strings.Contains(reply.Content, "search api down") {
		t.Error("provider error detail leaked to the user")
	}
}

func TestSubmit_AnswererErrorReportedInline(t *testing.T) {
	ans := &mockAnswerer{err: errors.New("llm exploded")}
	fb := &mockFallback{}
	svc := newService(ans, fb)
	sess := svc.Create(context.Background())

	reply, err := svc.Submit(context.Background(), sess.ID, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(reply.Content, "System error:") {
		t.Errorf("expected a system error message, got %q", reply.Content)
	}
	if fb.calls != 0 {
		t.Error("fallback must not run after a pipeline error")
	}
}

func TestSubmit_UnknownSession(t *testing.T) {
	svc := newService(&mockAnswerer{}, &mockFallback{})

	_, err := svc.Submit(context.Background(), "missing", "q")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestClear_ResetsToSingleGreeting(t *testing.T) {
	ans := &mockAnswerer{res: answer.Result{Found: true, Text: "hi"}}
	svc := newService(ans, &mockFallback{})
	sess := svc.Create(context.Background())

	if _, err := svc.Submit(context.Background(), sess.ID, "first"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	cleared, err := svc.Clear(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.ID != sess.ID {
		t.Error("clear must preserve the session id")
	}
	if len(cleared.Messages) != 1 {
		t.Fatalf("expected one message after clear, got %d", len(cleared.Messages))
	}
	if cleared.Messages[0].Content != Greeting {
		t.Errorf("expected a fresh greeting, got %q", cleared.Messages[0].Content)
	}
}

func TestDestroy_RemovesSession(t *testing.T) {
	svc := newService(&mockAnswerer{}, &mockFallback{})
	sess := svc.Create(context.Background())

	if err := svc.Destroy(context.Background(), sess.ID); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := svc.Get(context.Background(), sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}
	if err := svc.Destroy(context.Background(), sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("second destroy must report ErrSessionNotFound, got %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ans := &mockAnswerer{res: answer.Result{Found: true, Text: "reply"}}
	svc := newService(ans, &mockFallback{})

	a := svc.Create(context.Background())
	b := svc.Create(context.Background())

	if _, err := svc.Submit(context.Background(), a.ID, "only in a"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	gotB, err := svc.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(gotB.Messages) != 1 {
		t.Errorf("session b leaked messages from a: %d messages", len(gotB.Messages))
	}
}
