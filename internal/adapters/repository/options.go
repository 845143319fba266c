package repository

import (
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/pkg/logger"
)

// TableDef describes where a configuration table lives and how its values
// are written.
type TableDef struct {
	Range   string
	Key     string // header of the entity column; empty means the first column
	Format  normalize.Kind
	Formats map[string]normalize.Kind // by header, matched ignoring case and accents
	Weights bool
}

// Option applies a configuration option to the SheetStore.
type Option func(*SheetStore)

// WithPexRange sets the A1 range of the PEX sheet.
func WithPexRange(r string) Option {
	return func(s *SheetStore) {
		if r != "" {
			s.pexRange = r
		}
	}
}

// WithSalesRange sets the A1 range of the Vendas sheet.
func WithSalesRange(r string) Option {
	return func(s *SheetStore) {
		if r != "" {
			s.salesRange = r
		}
	}
}

// WithTable registers a configuration table.
func WithTable(name string, def TableDef) Option {
	return func(s *SheetStore) {
		if name != "" && def.Range != "" {
			s.tables[name] = def
		}
	}
}

// WithAssignments names the tables used to fill blank cluster and
// consultant cells, keyed by unit.
func WithAssignments(clusterTable, consultantTable string) Option {
	return func(s *SheetStore) {
		s.clusterTable = clusterTable
		s.consultantTable = consultantTable
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SheetStore) {
		if l != nil {
			s.log = l
		}
	}
}
