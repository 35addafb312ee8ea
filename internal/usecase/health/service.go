package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means the catalog answers but the page cache does not.
	Degraded Status = "degraded"
	// Unhealthy means the catalog itself is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is one component's outcome.
type CheckResult struct {
	OK      bool
	Error   string
	Latency time.Duration
}

// Report aggregates health check results, keyed by component name.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogChecker
	cache   CachePinger
}

// New creates a Service. cache can be nil when the page cache is disabled.
func New(catalog CatalogChecker, cache CachePinger) *Service {
	return &Service{catalog: catalog, cache: cache}
}

// Check probes the catalog and, when configured, the cache.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"catalog": probe(ctx, s.catalog.HealthCheck),
	}
	if s.cache != nil {
		checks["cache"] = probe(ctx, s.cache.Ping)
	}

	status := Healthy
	switch {
	case !checks["catalog"].OK:
		status = Unhealthy
	case s.cache != nil && !checks["cache"].OK:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	start := time.Now()
	err := fn(ctx)
	res := CheckResult{OK: err == nil, Latency: time.Since(start)}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
