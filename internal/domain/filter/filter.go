// Package filter evaluates conjunctions of equality and date-range
// predicates over in-memory records.
package filter

import (
	"strings"
	"time"

	"github.com/okian/painel/internal/domain/model"
)

// Subject is anything that can be filtered.
type Subject interface {
	// Field returns the value of a named dimension; ok is false when the
	// subject does not carry it.
	Field(name string) (string, bool)
	// Date returns the subject's date; ok is false when it has none.
	Date() (time.Time, bool)
}

// Filter holds optional criteria. Zero values are inactive.
type Filter struct {
	Period     string    `json:"period,omitempty"`
	Unit       string    `json:"unit,omitempty"`
	Cluster    string    `json:"cluster,omitempty"`
	Consultant string    `json:"consultant,omitempty"`
	Product    string    `json:"product,omitempty"`
	From       time.Time `json:"from,omitzero"`
	To         time.Time `json:"to,omitzero"`
}

// IsZero reports whether no criterion is active.
func (f Filter) IsZero() bool {
	return len(f.fields()) == 0 && f.From.IsZero() && f.To.IsZero()
}

type criterion struct {
	field string
	want  string
}

func (f Filter) fields() []criterion {
	var out []criterion
	add := func(field, want string) {
		if want = strings.TrimSpace(want); want != "" {
			out = append(out, criterion{field: field, want: want})
		}
	}
	add(model.FieldPeriod, f.Period)
	add(model.FieldUnit, f.Unit)
	add(model.FieldCluster, f.Cluster)
	add(model.FieldConsultant, f.Consultant)
	add(model.FieldProduct, f.Product)
	return out
}

// Match reports whether s satisfies every active criterion.
func (f Filter) Match(s Subject) bool {
	for _, c := range f.fields() {
		got, ok := s.Field(c.field)
		if !ok || got != c.want {
			return false
		}
	}
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	d, ok := s.Date()
	if !ok {
		return false
	}
	day := truncateDay(d)
	if !f.From.IsZero() && day.Before(truncateDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(truncateDay(f.To)) {
		return false
	}
	return true
}

// Apply returns the items matching f, preserving order. An inactive
// filter returns items unchanged.
func Apply[T Subject](items []T, f Filter) []T {
	if f.IsZero() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Distinct collects the non-empty values of field in first-seen order.
func Distinct[T Subject](items []T, field string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		v, ok := it.Field(field)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
