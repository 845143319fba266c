// Package edits buffers configuration changes and commits them one cell at
// a time.
package edits

import (
	"context"
	"fmt"
	"strings"
)

// Change sets one field of one entity.
type Change struct {
	Entity string `json:"entityKey"`
	Field  string `json:"subKey"`
	Value  string `json:"value"`
}

// Validate rejects changes without an entity or field.
func (c Change) Validate() error {
	if strings.TrimSpace(c.Entity) == "" {
		return fmt.Errorf("%w: missing entity", ErrInvalid)
	}
	if strings.TrimSpace(c.Field) == "" {
		return fmt.Errorf("%w: missing field for %q", ErrInvalid, c.Entity)
	}
	return nil
}

func (c Change) key() [2]string { return [2]string{c.Entity, c.Field} }

// ChangeSet is an ordered list of pending changes. Setting a pair twice
// replaces the value and keeps the position of the first edit.
type ChangeSet struct {
	changes []Change
	index   map[[2]string]int
}

// NewChangeSet returns a set holding changes in order.
func NewChangeSet(changes ...Change) *ChangeSet {
	s := &ChangeSet{}
	for _, c := range changes {
		s.Set(c)
	}
	return s
}

// Set records c.
func (s *ChangeSet) Set(c Change) {
	if s.index == nil {
		s.index = make(map[[2]string]int)
	}
	if i, ok := s.index[c.key()]; ok {
		s.changes[i].Value = c.Value
		return
	}
	s.index[c.key()] = len(s.changes)
	s.changes = append(s.changes, c)
}

// Get returns the pending value for entity and field.
func (s *ChangeSet) Get(entity, field string) (string, bool) {
	i, ok := s.index[[2]string{entity, field}]
	if !ok {
		return "", false
	}
	return s.changes[i].Value, true
}

// Len returns the number of pending changes.
func (s *ChangeSet) Len() int { return len(s.changes) }

// Changes returns a copy of the pending changes in order.
func (s *ChangeSet) Changes() []Change {
	return append([]Change(nil), s.changes...)
}

// Writer applies a single change to the backing store.
type Writer interface {
	Write(ctx context.Context, c Change) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, c Change) error

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, c Change) error { return f(ctx, c) }

// Result reports how far a commit got.
type Result struct {
	Applied []Change `json:"applied"`
	Failed  *Change  `json:"failed,omitempty"`
	Pending []Change `json:"pending"`
	Err     error    `json:"-"`
}

// OK reports whether every change was applied.
func (r Result) OK() bool { return r.Err == nil }

// Commit writes changes in order, one at a time, and stops at the first
// failure. Already applied writes stay applied.
func Commit(ctx context.Context, w Writer, changes []Change) Result {
	res := Result{Applied: make([]Change, 0, len(changes)), Pending: []Change{}}
	for i, c := range changes {
		err := ctx.Err()
		if err == nil {
			err = w.Write(ctx, c)
		}
		if err != nil {
			failed := c
			res.Failed = &failed
			res.Pending = append(res.Pending, changes[i+1:]...)
			res.Err = fmt.Errorf("%s/%s: %w", c.Entity, c.Field, err)
			return res
		}
		res.Applied = append(res.Applied, c)
	}
	return res
}
