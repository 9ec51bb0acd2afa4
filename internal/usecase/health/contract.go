package health

import "context"

// ProviderChecker checks a hosted provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// IndexInfo exposes the built index's size.
type IndexInfo interface {
	Len() int
}
