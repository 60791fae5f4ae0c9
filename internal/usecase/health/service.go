// Package health aggregates component availability checks for the
// /healthz endpoint.
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
	// CheckDisabled indicates a component not configured in this deployment.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. The sparse index is always in-process,
// so only external components can degrade the service.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	idx       IndexReporter
}

// New creates a Service. db and embedding can be nil in memory-only or
// keyword-only deployments.
func New(db DBPinger, embedding EmbeddingChecker, idx IndexReporter) *Service {
	return &Service{db: db, embedding: embedding, idx: idx}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	} else {
		checks["database"] = CheckDisabled
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	} else {
		checks["embedding"] = CheckDisabled
	}

	stats := s.idx.Stats()
	if stats.SparseAvailable || stats.ChunkCount == 0 {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
