package model

import (
	"strings"

	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/normalize"
)

// ConfigRow is one entity of a configuration table with its field values.
type ConfigRow struct {
	Entity string            `json:"entity"`
	Values map[string]string `json:"values"`
	Row    int               `json:"row"` // 1-based sheet row
}

// ConfigTable is a goal, weight, bonus or assignment sheet: entities down
// the key column, period- or indicator-scoped values across.
type ConfigTable struct {
	Name      string                    `json:"name"`
	Sheet     string                    `json:"sheet"`
	KeyHeader string                    `json:"key_header"`
	Fields    []string                  `json:"fields"`
	Formats   map[string]normalize.Kind `json:"-"`
	Default   normalize.Kind            `json:"-"`
	Rows      []ConfigRow               `json:"rows"`

	// Columns holds the 1-based sheet column of every field.
	Columns map[string]int `json:"-"`
}

// Find returns the row for entity, compared case-insensitively.
func (t *ConfigTable) Find(entity string) (ConfigRow, bool) {
	entity = strings.TrimSpace(entity)
	for _, r := range t.Rows {
		if strings.EqualFold(r.Entity, entity) {
			return r, true
		}
	}
	return ConfigRow{}, false
}

// Field resolves a field name to the header spelling used by the sheet.
func (t *ConfigTable) Field(name string) (string, bool) {
	want := indicator.Fold(name)
	for _, f := range t.Fields {
		if indicator.Fold(f) == want {
			return f, true
		}
	}
	return "", false
}

// Format returns the write format for field.
func (t *ConfigTable) Format(field string) normalize.Kind {
	if k, ok := t.Formats[field]; ok {
		return k
	}
	return t.Default
}

// Column returns the values of field keyed by entity.
func (t *ConfigTable) Column(field string) map[string]string {
	out := make(map[string]string, len(t.Rows))
	for _, r := range t.Rows {
		out[r.Entity] = r.Values[field]
	}
	return out
}

// Set replaces the value of field for entity. It reports false when the
// entity is unknown.
func (t *ConfigTable) Set(entity, field, value string) bool {
	entity = strings.TrimSpace(entity)
	for i := range t.Rows {
		if strings.EqualFold(t.Rows[i].Entity, entity) {
			if t.Rows[i].Values == nil {
				t.Rows[i].Values = make(map[string]string)
			}
			t.Rows[i].Values[field] = value
			return true
		}
	}
	return false
}
