package health

import "context"

// CatalogChecker probes the remote collection API.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks page cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
