package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
	"github.com/kailas-cloud/guidechat/internal/index"
)

// --- Mocks ---

type mockRetriever struct {
	hits   []index.Hit
	err    error
	lastK  int
	lastQ  string
	called bool
}

func (m *mockRetriever) Search(_ context.Context, query string, k int) ([]index.Hit, error) {
	m.called = true
	m.lastQ = query
	m.lastK = k
	return m.hits, m.err
}

type mockGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	return m.text, m.err
}

func guideHits() []index.Hit {
	return []index.Hit{
		{Chunk: domain.Chunk{ID: "g.pdf#1:0", Text: "The 5G Max package costs $30 per month. Activation code: *123#."}, Distance: 0.1},
		{Chunk: domain.Chunk{ID: "g.pdf#2:0", Text: "Restart the router by holding the power button for 10 seconds."}, Distance: 0.2},
	}
}

// --- Tests ---

func TestAnswer_Found(t *testing.T) {
	retr := &mockRetriever{hits: guideHits()}
	gen := &mockGenerator{text: "The 5G Max package costs $30 per month."}
	svc := New(retr, gen, zap.NewNop())

	res, err := svc.Answer(context.Background(), "how much is 5G Max?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("expected Found=true")
	}
	if res.Text != "The 5G Max package costs $30 per month." {
		t.Errorf("answer must be passed through verbatim, got %q", res.Text)
	}
	if retr.lastK != topK {
		t.Errorf("expected k=%d, got %d", topK, retr.lastK)
	}
}

func TestAnswer_SentinelMeansNotFound(t *testing.T) {
	for _, raw := range []string{"NOT_FOUND", "  NOT_FOUND  ", "\"NOT_FOUND\"", "NOT_FOUND."} {
		gen := &mockGenerator{text: raw}
		svc := New(&mockRetriever{hits: guideHits()}, gen, zap.NewNop())

		res, err := svc.Answer(context.Background(), "do you sell smart fridges?")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if res.Found {
			t.Errorf("%q: expected Found=false", raw)
		}
		if res.Text != "" {
			t.Errorf("%q: sentinel must not leak into Text, got %q", raw, res.Text)
		}
	}
}

func TestAnswer_SentinelMentionIsNotSentinel(t *testing.T) {
	gen := &mockGenerator{text: "If the display shows NOT_FOUND, re-seat the SIM card."}
	svc := New(&mockRetriever{hits: guideHits()}, gen, zap.NewNop())

	res, err := svc.Answer(context.Background(), "what does the NOT_FOUND display mean?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Fatal("an answer mentioning the token must still count as found")
	}
}

func TestAnswer_PromptContainsContextAndQuery(t *testing.T) {
	gen := &mockGenerator{text: "answer"}
	svc := New(&mockRetriever{hits: guideHits()}, gen, zap.NewNop())

	if _, err := svc.Answer(context.Background(), "router restart?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.lastPrompt, "power button") {
		t.Error("prompt missing retrieved chunk text")
	}
	if !strings.Contains(gen.lastPrompt, "router restart?") {
		t.Error("prompt missing customer question")
	}
	if !strings.Contains(gen.lastPrompt, Sentinel) {
		t.Error("prompt missing the not-found instruction")
	}
}

func TestAnswer_RetrieverError(t *testing.T) {
	wantErr := errors.New("embedding provider down")
	svc := New(&mockRetriever{err: wantErr}, &mockGenerator{}, zap.NewNop())

	_, err := svc.Answer(context.Background(), "q")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped retriever error, got %v", err)
	}
}

func TestAnswer_GeneratorError(t *testing.T) {
	wantErr := errors.New("llm down")
	svc := New(&mockRetriever{hits: guideHits()}, &mockGenerator{err: wantErr}, zap.NewNop())

	_, err := svc.Answer(context.Background(), "q")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}
}
