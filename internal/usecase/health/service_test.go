package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockIndex struct{ n int }

func (m *mockIndex) Len() int { return m.n }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{}, &mockPinger{}, &mockIndex{n: 42})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Fatalf("expected %q, got %q", Healthy, report.Status)
	}
	if report.Checks["llm"] != CheckOK {
		t.Errorf("llm check: %q", report.Checks["llm"])
	}
	if report.Checks["cache"] != CheckOK {
		t.Errorf("cache check: %q", report.Checks["cache"])
	}
	if report.IndexChunks != 42 {
		t.Errorf("index chunks: %d", report.IndexChunks)
	}
}

func TestCheck_LLMDown(t *testing.T) {
	svc := New(&mockChecker{err: errors.New("timeout")}, nil, &mockIndex{n: 1})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Fatalf("expected %q, got %q", Degraded, report.Status)
	}
	if report.Checks["llm"] != CheckError {
		t.Errorf("llm check: %q", report.Checks["llm"])
	}
}

func TestCheck_NoCacheConfigured(t *testing.T) {
	svc := New(&mockChecker{}, nil, &mockIndex{n: 1})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Fatalf("expected %q, got %q", Healthy, report.Status)
	}
	if _, ok := report.Checks["cache"]; ok {
		t.Error("cache check must be omitted when no cache is configured")
	}
}

func TestCheck_CacheDownDegrades(t *testing.T) {
	svc := New(&mockChecker{}, &mockPinger{err: errors.New("refused")}, &mockIndex{n: 1})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Fatalf("expected %q, got %q", Degraded, report.Status)
	}
}
