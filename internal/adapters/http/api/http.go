// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/painel/internal/adapters/audit"
	"github.com/okian/painel/internal/adapters/chart"
	"github.com/okian/painel/internal/adapters/export"
	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/adapters/sheets"
	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/filter"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/ranking"
	"github.com/okian/painel/internal/domain/sales"
	"github.com/okian/painel/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecordsDependencies
	RankingDependencies
	SalesDependencies
	ConfigDependencies
	AuditDependencies
	StatsProvider
}

// RecordsDependencies reads PEX rows.
type RecordsDependencies interface {
	Records(ctx context.Context, f filter.Filter) ([]model.Record, error)
	Filters(ctx context.Context) (service.Filters, error)
}

// RankingDependencies computes rankings.
type RankingDependencies interface {
	Ranking(ctx context.Context, q service.RankingQuery) (service.Ranking, error)
	Rank(ctx context.Context, unit string, q service.RankingQuery) (service.UnitRank, error)
	PageSize() int
	ChartLimit() int
	Now() time.Time
}

// SalesDependencies summarizes Vendas rows.
type SalesDependencies interface {
	SalesSummary(ctx context.Context, q service.SalesQuery) (service.SalesReport, error)
	PageSize() int
	ChartLimit() int
	Now() time.Time
}

// ConfigDependencies reads and edits configuration tables.
type ConfigDependencies interface {
	Tables() []string
	ConfigTable(ctx context.Context, name string) (*model.ConfigTable, error)
	UpdateConfig(ctx context.Context, name string, c edits.Change) (repository.Write, error)
	CommitConfig(ctx context.Context, name string, changes []edits.Change) (service.CommitResult, error)
}

// AuditDependencies lists committed writes.
type AuditDependencies interface {
	Audit(ctx context.Context, limit int) ([]audit.Entry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	recordsHandler *RecordsHandler
	rankingHandler *RankingHandler
	rankHandler    *RankHandler
	salesHandler   *SalesHandler
	configHandler  *ConfigHandler
	auditHandler   *AuditHandler
}

// Option applies a configuration option to the Server.
type Option func(*options)

type options struct {
	log           logger.Logger
	maxAuditLimit int
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxAuditLimit caps GET /api/audit?limit.
func WithMaxAuditLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAuditLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := options{log: logger.Nop(), maxAuditLimit: 500}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.Named("api")
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		recordsHandler: NewRecordsHandler(deps, log),
		rankingHandler: NewRankingHandler(deps, log),
		rankHandler:    NewRankHandler(deps, log),
		salesHandler:   NewSalesHandler(deps, log),
		configHandler:  NewConfigHandler(deps, log),
		auditHandler:   NewAuditHandler(deps, o.maxAuditLimit, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}
	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /api/pex/records", "pex_records", s.recordsHandler.HandleRecords)
	route("GET /api/pex/filters", "pex_filters", s.recordsHandler.HandleFilters)
	route("GET /api/pex/ranking", "pex_ranking", s.rankingHandler.HandleRanking)
	route("GET /api/pex/ranking/export", "pex_ranking_export", s.rankingHandler.HandleExport)
	route("GET /api/pex/ranking/chart.png", "pex_ranking_chart", s.rankingHandler.HandleChart)
	route("GET /api/pex/rank/{unit}", "pex_rank", s.rankHandler.HandleGetRank)

	route("GET /api/vendas/summary", "vendas_summary", s.salesHandler.HandleSummary)
	route("GET /api/vendas/export", "vendas_export", s.salesHandler.HandleExport)
	route("GET /api/vendas/chart.png", "vendas_chart", s.salesHandler.HandleChart)

	route("GET /api/config", "config_tables", s.configHandler.HandleTables)
	route("GET /api/config/{table}", "config_table", s.configHandler.HandleGetTable)
	route("POST /api/config/{table}", "config_update", s.configHandler.HandleUpdate)
	route("POST /api/config/{table}/commit", "config_commit", s.configHandler.HandleCommit)

	route("GET /api/audit", "audit", s.auditHandler.HandleAudit)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

// fail maps err to a status and error code, logging server-side failures.
func fail(ctx context.Context, log logger.Logger, w http.ResponseWriter, op string, err error) {
	status, code := Classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, err)
}

// Classify maps domain and adapter errors to an HTTP status and error code.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, sheets.ErrNotConfigured):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, repository.ErrUnknownTable),
		errors.Is(err, ranking.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, chart.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, repository.ErrUnknownEntity),
		errors.Is(err, repository.ErrUnknownField):
		return http.StatusUnprocessableEntity, "unknown_key"
	case errors.Is(err, edits.ErrWeightSum):
		return http.StatusUnprocessableEntity, "weight_sum"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, edits.ErrInvalid),
		errors.Is(err, edits.ErrEmpty),
		errors.Is(err, service.ErrInvalidQuery),
		errors.Is(err, ranking.ErrBadGroup),
		errors.Is(err, sales.ErrBadGroup),
		errors.Is(err, sales.ErrBadDate),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNoHeader),
		errors.Is(err, repository.ErrMissingColumn),
		errors.Is(err, sheets.ErrNoSheet),
		errors.Is(err, sheets.ErrBadRange):
		return http.StatusBadGateway, "bad_sheet"
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}
