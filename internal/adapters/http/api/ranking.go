package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/painel/internal/adapters/chart"
	"github.com/okian/painel/internal/adapters/export"
	"github.com/okian/painel/internal/domain/ranking"
	"github.com/okian/painel/internal/domain/table"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// RankingHandler serves the PEX ranking as a table, a download and a chart.
type RankingHandler struct {
	deps RankingDependencies
	log  logger.Logger
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies, log logger.Logger) *RankingHandler {
	return &RankingHandler{deps: deps, log: log}
}

type rankingResponse struct {
	Indicator string          `json:"indicator"`
	Label     string          `json:"label"`
	Periods   []string        `json:"periods"`
	Scope     ranking.Scope   `json:"scope"`
	GroupBy   ranking.GroupBy `json:"group_by,omitempty"`
	Units     int             `json:"units"`
	Table     table.View      `json:"table"`
}

// HandleRanking handles GET /api/pex/ranking.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.pex_ranking"
	v := r.URL.Query()
	q, err := ParseRankingQuery(v)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	tq, err := ParseTableQuery(v, h.deps.PageSize())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	rk, err := h.deps.Ranking(r.Context(), q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingResponse{
		Indicator: string(rk.Indicator),
		Label:     rk.Label,
		Periods:   rk.Periods,
		Scope:     rk.Scope,
		GroupBy:   rk.GroupBy,
		Units:     len(rk.Global),
		Table:     tq.Run(rk.Rows(), rk.Columns()),
	})
}

// HandleExport handles GET /api/pex/ranking/export?format=. Every row
// matching the search is exported in the requested order, not one page.
func (h *RankingHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.pex_ranking_export"
	v := r.URL.Query()
	format, err := export.ParseFormat(v.Get("format"))
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	q, err := ParseRankingQuery(v)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	tq, err := ParseTableQuery(v, h.deps.PageSize())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	rk, err := h.deps.Ranking(r.Context(), q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	view := tq.Run(rk.Rows(), rk.Columns())

	var buf bytes.Buffer
	if err := export.Write(&buf, format, "Ranking", view.Cols, view.All); err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	metrics.RecordExport("ranking", string(format))
	attachment(w, format, table.Filename("Ranking "+rk.Label, rk.Context(), format.Ext(), h.deps.Now()))
	_, _ = w.Write(buf.Bytes())
}

// HandleChart handles GET /api/pex/ranking/chart.png?limit=.
func (h *RankingHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.pex_ranking_chart"
	v := r.URL.Query()
	q, err := ParseRankingQuery(v)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	limit, err := chartLimit(v.Get("limit"), h.deps.ChartLimit())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	rk, err := h.deps.Ranking(r.Context(), q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.RankingPNG(&buf, "Ranking "+rk.Label, rk.Entries, limit); err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	metrics.RecordExport("ranking", "png")
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func chartLimit(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ErrBadRequest
	}
	return n, nil
}
