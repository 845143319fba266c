// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/okian/painel/pkg/logger"
)

// RankHandler handles single unit rank requests.
type RankHandler struct {
	deps RankingDependencies
	log  logger.Logger
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankingDependencies, log logger.Logger) *RankHandler {
	return &RankHandler{deps: deps, log: log}
}

// HandleGetRank handles GET /api/pex/rank/{unit} requests. The ranking
// query parameters select periods, indicator and grouping.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.pex_rank"
	unit := strings.TrimSpace(r.PathValue("unit"))
	if unit == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	q, err := ParseRankingQuery(r.URL.Query())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	entry, err := h.deps.Rank(r.Context(), unit, q)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
