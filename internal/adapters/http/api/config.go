package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/pkg/logger"
)

// maxBodyBytes bounds edit request bodies.
const maxBodyBytes = 1 << 20

// ConfigHandler serves and edits the configuration tables.
type ConfigHandler struct {
	deps ConfigDependencies
	log  logger.Logger
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(deps ConfigDependencies, log logger.Logger) *ConfigHandler {
	return &ConfigHandler{deps: deps, log: log}
}

// updateResponse is the reply of a single field update.
type updateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Cell    string `json:"cell,omitempty"`
	Value   string `json:"value,omitempty"`
}

// commitFailure reports a batch that stopped at a failed write.
type commitFailure struct {
	service.CommitResult
	Error string `json:"error"`
	Cause string `json:"cause"`
}

type commitRequest struct {
	Changes []edits.Change `json:"changes"`
}

// HandleTables handles GET /api/config.
func (h *ConfigHandler) HandleTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tables": h.deps.Tables()})
}

// HandleGetTable handles GET /api/config/{table}.
func (h *ConfigHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.config_table"
	t, err := h.deps.ConfigTable(r.Context(), r.PathValue("table"))
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleUpdate handles POST /api/config/{table} with a single
// {entityKey, subKey, value} change.
func (h *ConfigHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.config_update"
	var c edits.Change
	if err := decode(w, r, &c); err != nil {
		h.reply(w, r, op, err)
		return
	}
	wr, err := h.deps.UpdateConfig(r.Context(), r.PathValue("table"), c)
	if err != nil {
		h.reply(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{
		Success: true,
		Message: fmt.Sprintf("%s updated", wr.Cell),
		Cell:    wr.Cell,
		Value:   wr.Value,
	})
}

// HandleCommit handles POST /api/config/{table}/commit. Changes are written
// in order; a write failure answers 502 with the applied and pending lists.
func (h *ConfigHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	const op = "api.config_commit"
	var req commitRequest
	if err := decode(w, r, &req); err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	res, err := h.deps.CommitConfig(r.Context(), r.PathValue("table"), req.Changes)
	if err != nil {
		fail(r.Context(), h.log, w, op, err)
		return
	}
	if !res.OK() {
		h.log.Warn(r.Context(), "commit stopped",
			logger.String("table", res.Table),
			logger.Int("applied", len(res.Applied)),
			logger.Error(res.Err))
		writeJSON(w, http.StatusBadGateway, commitFailure{
			CommitResult: res,
			Error:        "partial_commit",
			Cause:        res.Err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// reply answers a failed single update in the {success, message} shape.
func (h *ConfigHandler) reply(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, _ := Classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	}
	writeJSON(w, status, updateResponse{Success: false, Message: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
