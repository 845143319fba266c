package api

import (
	"net/http"

	"github.com/okian/painel/pkg/logger"
)

// RecordsHandler serves raw PEX rows and the filter dropdown values.
type RecordsHandler struct {
	deps RecordsDependencies
	log  logger.Logger
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordsDependencies, log logger.Logger) *RecordsHandler {
	return &RecordsHandler{deps: deps, log: log}
}

// HandleRecords handles GET /api/pex/records.
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.pex_records"
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	records, err := h.deps.Records(r.Context(), f)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filter":  f,
		"total":   len(records),
		"records": records,
	})
}

// HandleFilters handles GET /api/pex/filters.
func (h *RecordsHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.pex_filters"
	f, err := h.deps.Filters(r.Context())
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}
