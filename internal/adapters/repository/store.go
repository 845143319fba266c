// Package repository turns spreadsheet ranges into domain values and writes
// configuration edits back to single cells.
package repository

import (
	"context"

	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/model"
)

// Store provides read/write access to the dashboard data.
type Store interface {
	// Records returns every PEX row in sheet order.
	Records(ctx context.Context) ([]model.Record, error)
	// Sales returns every Vendas row in sheet order.
	Sales(ctx context.Context) ([]model.Sale, error)
	// Table loads a configuration table by name.
	// Returns ErrUnknownTable for names without a definition.
	Table(ctx context.Context, name string) (*model.ConfigTable, error)
	// Tables lists the configured table names, sorted.
	Tables() []string
	// Definition returns the static definition of a table.
	Definition(name string) (TableDef, bool)
	// Writer loads table name once and returns a writer for its cells.
	Writer(ctx context.Context, name string) (*TableWriter, error)
}

// Write is a resolved change: the target cell and the formatted value.
type Write struct {
	Change edits.Change `json:"change"`
	Cell   string       `json:"cell"`
	Value  string       `json:"value"`
}
