package api

import (
	"net/http"
	"strconv"

	"github.com/okian/painel/pkg/logger"
)

// AuditHandler lists recent configuration writes.
type AuditHandler struct {
	deps     AuditDependencies
	maxLimit int
	log      logger.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(deps AuditDependencies, maxLimit int, log logger.Logger) *AuditHandler {
	return &AuditHandler{deps: deps, maxLimit: maxLimit, log: log}
}

// HandleAudit handles GET /api/audit?limit=N requests.
func (h *AuditHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	const op = "api.audit"
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		limit = n
	}
	entries, err := h.deps.Audit(r.Context(), limit)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
