package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status      Status
	Checks      map[string]CheckResult
	IndexChunks int
}

// Service coordinates health checks.
type Service struct {
	llm   ProviderChecker
	cache CachePinger
	index IndexInfo
}

// New creates a Service. cache can be nil when no cache is configured.
func New(llm ProviderChecker, cache CachePinger, index IndexInfo) *Service {
	return &Service{llm: llm, cache: cache, index: index}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.llm.HealthCheck(ctx); err != nil {
		checks["llm"] = CheckError
	} else {
		checks["llm"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, IndexChunks: s.index.Len()}
}
