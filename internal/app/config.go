package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/painel/internal/adapters/audit"
	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// CommitResult reports a commit and the cells it wrote.
type CommitResult struct {
	edits.Result
	Batch   string             `json:"batch"`
	Table   string             `json:"table"`
	Writes  []repository.Write `json:"writes"`
	Message string             `json:"message"`
}

// Tables lists the editable configuration tables.
func (s *Service) Tables() []string { return s.store.Tables() }

// ConfigTable loads a configuration table.
func (s *Service) ConfigTable(ctx context.Context, name string) (*model.ConfigTable, error) {
	return s.store.Table(ctx, name)
}

// UpdateConfig writes a single field of a configuration table.
func (s *Service) UpdateConfig(ctx context.Context, name string, c edits.Change) (repository.Write, error) {
	res, err := s.CommitConfig(ctx, name, []edits.Change{c})
	if err != nil {
		return repository.Write{}, err
	}
	if !res.OK() {
		if len(res.Writes) > 0 {
			return res.Writes[0], res.Err
		}
		return repository.Write{}, res.Err
	}
	return res.Writes[0], nil
}

// CommitConfig writes changes to table name in order, one cell at a time.
// Every change is validated and resolved before the first write; weight
// tables must keep each touched period summing to edits.WeightTotal.
// A write failure stops the batch and is reported in the result; an error
// is returned only when nothing was written.
func (s *Service) CommitConfig(ctx context.Context, name string, changes []edits.Change) (CommitResult, error) {
	for _, c := range changes {
		if err := c.Validate(); err != nil {
			return CommitResult{}, err
		}
	}
	if len(changes) == 0 {
		return CommitResult{}, edits.ErrEmpty
	}

	w, err := s.store.Writer(ctx, name)
	if err != nil {
		return CommitResult{}, err
	}
	t := w.Table()

	// Changes are keyed by the sheet's own spellings, so edits naming the
	// same cell differently collapse into one write.
	set := edits.NewChangeSet()
	for _, c := range changes {
		if _, err := w.Resolve(c); err != nil {
			return CommitResult{}, err
		}
		row, _ := t.Find(c.Entity)
		field, _ := t.Field(c.Field)
		c.Entity, c.Field = row.Entity, field
		set.Set(c)
	}
	changes = set.Changes()

	writes := make(map[[2]string]repository.Write, len(changes))
	for _, c := range changes {
		wr, err := w.Resolve(c)
		if err != nil {
			return CommitResult{}, err
		}
		writes[[2]string{c.Entity, c.Field}] = wr
	}
	if def, ok := s.store.Definition(name); ok && def.Weights {
		if err := edits.ValidateWeights(periods(t), changes); err != nil {
			return CommitResult{}, err
		}
	}

	batch := audit.NewBatch()
	out := CommitResult{Batch: batch, Table: name, Writes: []repository.Write{}}
	out.Result = edits.Commit(ctx, edits.WriterFunc(func(ctx context.Context, c edits.Change) error {
		wr, err := w.Apply(ctx, c)
		if err != nil && wr.Cell == "" {
			wr = writes[[2]string{c.Entity, c.Field}]
		}
		out.Writes = append(out.Writes, wr)
		s.record(ctx, batch, name, wr, err)
		return err
	}), changes)

	s.mu.Lock()
	s.commits++
	s.writes += len(out.Applied)
	s.mu.Unlock()

	metrics.RecordCommit(name, len(out.Applied), failedCount(out.Result), len(out.Pending), out.Err)
	out.Message = commitMessage(out.Result)
	if out.Err != nil {
		s.logger.Error(ctx, "config commit stopped",
			logger.String("table", name),
			logger.String("batch", batch),
			logger.Int("applied", len(out.Applied)),
			logger.Int("pending", len(out.Pending)),
			logger.Error(out.Err))
	} else {
		s.logger.Info(ctx, "config committed",
			logger.String("table", name),
			logger.String("batch", batch),
			logger.Int("applied", len(out.Applied)))
	}
	return out, nil
}

// Audit returns the latest audit entries, newest first.
func (s *Service) Audit(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, s.maxAuditLimit)
	return s.audit.Recent(ctx, limit)
}

func (s *Service) record(ctx context.Context, batch, table string, wr repository.Write, werr error) {
	e := audit.Entry{
		Batch:   batch,
		Table:   table,
		Entity:  wr.Change.Entity,
		Field:   wr.Change.Field,
		Cell:    wr.Cell,
		Value:   wr.Value,
		Outcome: audit.Applied,
		At:      s.now(),
	}
	if werr != nil {
		e.Outcome = audit.Failed
		e.Error = werr.Error()
	}
	err := s.audit.Record(ctx, e)
	metrics.RecordAuditEntry(err)
	if err != nil {
		s.logger.Warn(ctx, "audit entry not recorded", logger.String("cell", wr.Cell), logger.Error(err))
	}
}

// periods maps every field of a weight table to its indicator weights.
func periods(t *model.ConfigTable) map[string]map[string]string {
	out := make(map[string]map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		out[f] = t.Column(f)
	}
	return out
}

func failedCount(r edits.Result) int {
	if r.Failed != nil {
		return 1
	}
	return 0
}

func commitMessage(r edits.Result) string {
	if r.OK() {
		return "saved " + strconv.Itoa(len(r.Applied)) + " change(s)"
	}
	return fmt.Sprintf("saved %d change(s), stopped at %s/%s, %d pending",
		len(r.Applied), r.Failed.Entity, r.Failed.Field, len(r.Pending))
}
