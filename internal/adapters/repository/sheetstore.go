package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/okian/painel/internal/adapters/sheets"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/internal/domain/sales"
	"github.com/okian/painel/pkg/logger"
)

// SheetStore implements Store over a spreadsheet Source. Nothing is cached:
// every call reads the ranges it needs.
type SheetStore struct {
	src             sheets.Source
	pexRange        string
	salesRange      string
	tables          map[string]TableDef
	clusterTable    string
	consultantTable string
	log             logger.Logger
}

var _ Store = (*SheetStore)(nil)

// NewSheetStore creates a store reading from src.
func NewSheetStore(src sheets.Source, opts ...Option) *SheetStore {
	s := &SheetStore{
		src:        src,
		pexRange:   "PEX!A:Z",
		salesRange: "VENDAS!A:Z",
		tables:     make(map[string]TableDef),
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("repository")
	return s
}

// read returns the header, the data rows and the sheet row of the header.
func (s *SheetStore) read(ctx context.Context, a1 string) (sheets.Range, []string, [][]string, error) {
	r, err := sheets.ParseRange(a1)
	if err != nil {
		return r, nil, nil, err
	}
	rows, err := s.src.Values(ctx, a1)
	if err != nil {
		return r, nil, nil, err
	}
	if len(rows) == 0 {
		return r, nil, nil, fmt.Errorf("%w: %s", ErrNoHeader, a1)
	}
	return r, rows[0], rows[1:], nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Records implements Store.
func (s *SheetStore) Records(ctx context.Context) ([]model.Record, error) {
	r, header, rows, err := s.read(ctx, s.pexRange)
	if err != nil {
		return nil, err
	}
	cols := indicator.Resolve(header)
	if missing := cols.Missing(indicator.Unit); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s needs %v", ErrMissingColumn, s.pexRange, missing)
	}

	out := make([]model.Record, 0, len(rows))
	for i, row := range rows {
		unit, _ := cols.Cell(row, indicator.Unit)
		if blank(row) || unit == "" {
			continue
		}
		rec := model.Record{
			Unit:   unit,
			Values: make(map[indicator.ID]string),
			Row:    r.FirstRow() + i + 1,
		}
		period, _ := cols.Cell(row, indicator.Period)
		rec.Period = model.NormalizePeriod(period)
		rec.Cluster, _ = cols.Cell(row, indicator.Cluster)
		rec.Consultant, _ = cols.Cell(row, indicator.Consultant)
		for _, id := range indicator.Indicators() {
			if v, ok := cols.Cell(row, id); ok && v != "" {
				rec.Values[id] = v
			}
		}
		out = append(out, rec)
	}

	clusters, consultants := s.assignments(ctx)
	for i := range out {
		if out[i].Cluster == "" {
			out[i].Cluster = clusters[out[i].Unit]
		}
		if out[i].Consultant == "" {
			out[i].Consultant = consultants[out[i].Unit]
		}
	}
	return out, nil
}

// Sales implements Store. Rows without a parseable date keep a zero date
// and never match a date filter.
func (s *SheetStore) Sales(ctx context.Context) ([]model.Sale, error) {
	r, header, rows, err := s.read(ctx, s.salesRange)
	if err != nil {
		return nil, err
	}
	cols := indicator.Resolve(header)
	if missing := cols.Missing(indicator.Unit, indicator.Value); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s needs %v", ErrMissingColumn, s.salesRange, missing)
	}

	out := make([]model.Sale, 0, len(rows))
	var undated int
	for i, row := range rows {
		if blank(row) {
			continue
		}
		sale := model.Sale{Row: r.FirstRow() + i + 1, Quantity: 1}
		sale.Unit, _ = cols.Cell(row, indicator.Unit)
		sale.Cluster, _ = cols.Cell(row, indicator.Cluster)
		sale.Consultant, _ = cols.Cell(row, indicator.Consultant)
		sale.Product, _ = cols.Cell(row, indicator.Product)
		value, _ := cols.Cell(row, indicator.Value)
		sale.Value = normalize.Number(value)
		if q, ok := cols.Cell(row, indicator.Quantity); ok {
			sale.Quantity = normalize.Number(q)
		}
		if d, ok := cols.Cell(row, indicator.Date); ok {
			if t, err := sales.ParseDate(d); err == nil {
				sale.SoldAt = t
			} else {
				undated++
			}
		}
		out = append(out, sale)
	}
	if undated > 0 {
		s.log.Debug(ctx, "sales rows without a valid date", logger.Int("rows", undated))
	}

	clusters, consultants := s.assignments(ctx)
	for i := range out {
		if out[i].Cluster == "" {
			out[i].Cluster = clusters[out[i].Unit]
		}
		if out[i].Consultant == "" {
			out[i].Consultant = consultants[out[i].Unit]
		}
	}
	return out, nil
}

// assignments loads unit to cluster and unit to consultant maps. A table
// that fails to load is logged and treated as empty.
func (s *SheetStore) assignments(ctx context.Context) (clusters, consultants map[string]string) {
	load := func(name string) map[string]string {
		out := map[string]string{}
		if _, ok := s.tables[name]; !ok {
			return out
		}
		t, err := s.Table(ctx, name)
		if err != nil {
			s.log.Warn(ctx, "assignment table unavailable", logger.String("table", name), logger.Error(err))
			return out
		}
		if len(t.Fields) == 0 {
			return out
		}
		return t.Column(t.Fields[0])
	}
	return load(s.clusterTable), load(s.consultantTable)
}

// Tables implements Store.
func (s *SheetStore) Tables() []string {
	return slices.Sorted(maps.Keys(s.tables))
}

// Definition implements Store.
func (s *SheetStore) Definition(name string) (TableDef, bool) {
	def, ok := s.tables[name]
	return def, ok
}

// Table implements Store.
func (s *SheetStore) Table(ctx context.Context, name string) (*model.ConfigTable, error) {
	def, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	r, header, rows, err := s.read(ctx, def.Range)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}

	keyCol := 0
	if def.Key != "" {
		keyCol = -1
		want := indicator.Fold(def.Key)
		for i, h := range header {
			if indicator.Fold(h) == want {
				keyCol = i
				break
			}
		}
		if keyCol < 0 {
			return nil, fmt.Errorf("%w: table %s has no %q column", ErrMissingColumn, name, def.Key)
		}
	}
	if keyCol >= len(header) {
		return nil, fmt.Errorf("%w: table %s", ErrNoHeader, name)
	}

	t := &model.ConfigTable{
		Name:      name,
		Sheet:     r.Sheet,
		KeyHeader: strings.TrimSpace(header[keyCol]),
		Formats:   make(map[string]normalize.Kind),
		Default:   def.Format,
		Columns:   make(map[string]int),
		Rows:      []model.ConfigRow{},
	}
	fieldAt := make(map[int]string)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == keyCol || h == "" {
			continue
		}
		if _, dup := t.Columns[h]; dup {
			continue
		}
		t.Fields = append(t.Fields, h)
		t.Columns[h] = r.FirstCol() + i
		fieldAt[i] = h
	}
	for h, k := range def.Formats {
		if f, ok := t.Field(h); ok {
			t.Formats[f] = k
		}
	}

	for i, row := range rows {
		if blank(row) || keyCol >= len(row) {
			continue
		}
		entity := strings.TrimSpace(row[keyCol])
		if entity == "" {
			continue
		}
		cr := model.ConfigRow{Entity: entity, Values: make(map[string]string, len(t.Fields)), Row: r.FirstRow() + i + 1}
		for _, f := range t.Fields {
			cr.Values[f] = ""
		}
		for j, cell := range row {
			if f, ok := fieldAt[j]; ok {
				cr.Values[f] = strings.TrimSpace(cell)
			}
		}
		t.Rows = append(t.Rows, cr)
	}
	return t, nil
}

// Writer implements Store.
func (s *SheetStore) Writer(ctx context.Context, name string) (*TableWriter, error) {
	t, err := s.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	return &TableWriter{src: s.src, table: t, log: s.log}, nil
}

// WriteConfig resolves and writes a single change to table name.
func (s *SheetStore) WriteConfig(ctx context.Context, name string, c edits.Change) (Write, error) {
	w, err := s.Writer(ctx, name)
	if err != nil {
		return Write{}, err
	}
	return w.Apply(ctx, c)
}
