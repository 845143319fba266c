package sheets

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Source keyed by sheet name. Rows start at A1.
type Memory struct {
	mu     sync.Mutex
	sheets map[string][][]string
	writes []string
}

// NewMemory returns a Memory holding a copy of data.
func NewMemory(data map[string][][]string) *Memory {
	m := &Memory{sheets: make(map[string][][]string, len(data))}
	for name, rows := range data {
		m.sheets[name] = copyRows(rows)
	}
	return m
}

// Values implements Source.
func (m *Memory) Values(_ context.Context, readRange string) ([][]string, error) {
	r, err := ParseRange(readRange)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[r.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, r.Sheet)
	}
	return r.Clip(rows), nil
}

// Update implements Source, growing the sheet as needed.
func (m *Memory) Update(_ context.Context, cell, value string) error {
	r, err := ParseRange(cell)
	if err != nil {
		return err
	}
	if r.FromCol == 0 || r.FromRow == 0 {
		return fmt.Errorf("%w: %q is not a single cell", ErrBadRange, cell)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[r.Sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSheet, r.Sheet)
	}
	for len(rows) < r.FromRow {
		rows = append(rows, nil)
	}
	row := rows[r.FromRow-1]
	for len(row) < r.FromCol {
		row = append(row, "")
	}
	row[r.FromCol-1] = value
	rows[r.FromRow-1] = row
	m.sheets[r.Sheet] = rows
	m.writes = append(m.writes, cell)
	return nil
}

// Writes returns the cells updated so far, in order.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Unconfigured is a Source that fails every call with ErrNotConfigured.
// It lets the service start and report the problem per request.
type Unconfigured struct {
	Reason error
}

// Values implements Source.
func (u Unconfigured) Values(context.Context, string) ([][]string, error) { return nil, u.err() }

// Update implements Source.
func (u Unconfigured) Update(context.Context, string, string) error { return u.err() }

func (u Unconfigured) err() error {
	if u.Reason != nil {
		return u.Reason
	}
	return ErrNotConfigured
}
