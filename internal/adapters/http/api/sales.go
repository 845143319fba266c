package api

import (
	"bytes"
	"net/http"

	"github.com/okian/painel/internal/adapters/chart"
	"github.com/okian/painel/internal/adapters/export"
	"github.com/okian/painel/internal/domain/filter"
	"github.com/okian/painel/internal/domain/sales"
	"github.com/okian/painel/internal/domain/table"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// SalesHandler serves the Vendas summary as a table, a download and a chart.
type SalesHandler struct {
	deps SalesDependencies
	log  logger.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(deps SalesDependencies, log logger.Logger) *SalesHandler {
	return &SalesHandler{deps: deps, log: log}
}

type salesResponse struct {
	GroupBy sales.GroupBy `json:"group_by"`
	Filter  filter.Filter `json:"filter"`
	Rows    int           `json:"rows"`
	Totals  sales.Summary `json:"totals"`
	Table   table.View    `json:"table"`
}

// HandleSummary handles GET /api/vendas/summary.
func (h *SalesHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.vendas_summary"
	v := r.URL.Query()
	q, err := ParseSalesQuery(v)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	tq, err := ParseTableQuery(v, h.deps.PageSize())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	rep, err := h.deps.SalesSummary(r.Context(), q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, salesResponse{
		GroupBy: rep.GroupBy,
		Filter:  rep.Filter,
		Rows:    rep.Rows,
		Totals:  rep.Totals,
		Table:   tq.Run(rep.TableRows(), rep.Columns()),
	})
}

// HandleExport handles GET /api/vendas/export?format=.
func (h *SalesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.vendas_export"
	v := r.URL.Query()
	format, err := export.ParseFormat(v.Get("format"))
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	q, err := ParseSalesQuery(v)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	tq, err := ParseTableQuery(v, h.deps.PageSize())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	rep, err := h.deps.SalesSummary(r.Context(), q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	view := tq.Run(rep.TableRows(), rep.Columns())

	var buf bytes.Buffer
	if err := export.Write(&buf, format, "Vendas", view.Cols, view.All); err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	metrics.RecordExport("sales", string(format))
	attachment(w, format, table.Filename("Vendas", rep.Context(), format.Ext(), h.deps.Now()))
	_, _ = w.Write(buf.Bytes())
}

// HandleChart handles GET /api/vendas/chart.png?limit=.
func (h *SalesHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.vendas_chart"
	v := r.URL.Query()
	q, err := ParseSalesQuery(v)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	limit, err := chartLimit(v.Get("limit"), h.deps.ChartLimit())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	rep, err := h.deps.SalesSummary(r.Context(), q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.SalesPNG(&buf, "Vendas por "+string(rep.GroupBy), rep.Summaries, limit); err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	metrics.RecordExport("sales", "png")
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}
