package repository

import (
	"context"
	"fmt"

	"github.com/okian/painel/internal/adapters/sheets"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/pkg/logger"
)

// TableWriter writes changes into the cells of one loaded table.
type TableWriter struct {
	src   sheets.Source
	table *model.ConfigTable
	log   logger.Logger
}

var _ edits.Writer = (*TableWriter)(nil)

// Table returns the table as loaded, with applied writes reflected.
func (w *TableWriter) Table() *model.ConfigTable { return w.table }

// Resolve finds the cell of c and formats its value for the field.
func (w *TableWriter) Resolve(c edits.Change) (Write, error) {
	if err := c.Validate(); err != nil {
		return Write{}, err
	}
	row, ok := w.table.Find(c.Entity)
	if !ok {
		return Write{}, fmt.Errorf("%w: %q in %s", ErrUnknownEntity, c.Entity, w.table.Name)
	}
	field, ok := w.table.Field(c.Field)
	if !ok {
		return Write{}, fmt.Errorf("%w: %q in %s", ErrUnknownField, c.Field, w.table.Name)
	}
	cell, err := sheets.Cell(w.table.Sheet, w.table.Columns[field], row.Row)
	if err != nil {
		return Write{}, err
	}
	return Write{
		Change: c,
		Cell:   cell,
		Value:  normalize.Format(w.table.Format(field), c.Value),
	}, nil
}

// Apply resolves and writes c.
func (w *TableWriter) Apply(ctx context.Context, c edits.Change) (Write, error) {
	wr, err := w.Resolve(c)
	if err != nil {
		return Write{}, err
	}
	if err := w.src.Update(ctx, wr.Cell, wr.Value); err != nil {
		return wr, err
	}
	w.remember(c, wr.Value)
	w.log.Debug(ctx, "config cell written",
		logger.String("table", w.table.Name),
		logger.String("cell", wr.Cell),
		logger.String("value", wr.Value))
	return wr, nil
}

// Write implements edits.Writer.
func (w *TableWriter) Write(ctx context.Context, c edits.Change) error {
	_, err := w.Apply(ctx, c)
	return err
}

func (w *TableWriter) remember(c edits.Change, value string) {
	if field, ok := w.table.Field(c.Field); ok {
		w.table.Set(c.Entity, field, value)
	}
}
