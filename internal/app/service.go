// Package service implements the dashboard use cases on top of the
// spreadsheet repository. It is the dependency of the HTTP API and the CLI.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/painel/internal/adapters/audit"
	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/pkg/logger"
)

// Service implements the API dependencies for the PEX and Vendas dashboards.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	audit audit.Recorder

	// Configuration
	sourceName       string
	salesTargets     string
	salesTargetField string
	pageSize         int
	chartLimit       int
	maxAuditLimit    int

	// State
	startedAt time.Time
	commits   int
	writes    int

	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAudit sets the recorder of committed writes.
func WithAudit(r audit.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.audit = r
		}
	}
}

// WithSourceName labels the data source in stats.
func WithSourceName(name string) Option {
	return func(s *Service) {
		s.sourceName = name
	}
}

// WithSalesTargets names the config table and column holding sales targets.
func WithSalesTargets(table, field string) Option {
	return func(s *Service) {
		s.salesTargets = table
		if field != "" {
			s.salesTargetField = field
		}
	}
}

// WithPageSize sets the default table page size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithChartLimit caps the number of bars in charts.
func WithChartLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.chartLimit = n
		}
	}
}

// WithMaxAuditLimit caps the number of audit entries returned at once.
func WithMaxAuditLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAuditLimit = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:            store,
		audit:            audit.Nop{},
		sourceName:       "sheets",
		salesTargetField: "META",
		pageSize:         10,
		chartLimit:       20,
		maxAuditLimit:    500,
		logger:           logger.Nop(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// PageSize returns the default table page size.
func (s *Service) PageSize() int { return s.pageSize }

// ChartLimit returns the bar cap of charts.
func (s *Service) ChartLimit() int { return s.chartLimit }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, noAudit := s.audit.(audit.Nop)
	return map[string]any{
		"source":       s.sourceName,
		"startedAt":    s.startedAt.UTC().Format(time.RFC3339),
		"uptime":       s.now().Sub(s.startedAt).Round(time.Second).String(),
		"tables":       s.store.Tables(),
		"auditEnabled": !noAudit,
		"commits":      s.commits,
		"writes":       s.writes,
		"goroutines":   runtime.NumGoroutine(),
	}
}
