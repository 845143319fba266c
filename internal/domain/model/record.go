// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/normalize"
)

// Filterable field names understood by Record and Sale.
const (
	FieldPeriod     = "period"
	FieldUnit       = "unit"
	FieldCluster    = "cluster"
	FieldConsultant = "consultant"
	FieldProduct    = "product"
)

// Record is one PEX row: a unit's indicators for one period.
type Record struct {
	Unit       string                  `json:"unit"`
	Period     string                  `json:"period"`
	Cluster    string                  `json:"cluster"`
	Consultant string                  `json:"consultant"`
	Values     map[indicator.ID]string `json:"values"`
	Row        int                     `json:"row"` // 1-based sheet row
}

// Score returns the normalized value of indicator id; absent values are 0.
func (r Record) Score(id indicator.ID) float64 {
	return normalize.Number(r.Values[id])
}

// Field implements filter.Subject.
func (r Record) Field(name string) (string, bool) {
	var v string
	switch name {
	case FieldPeriod:
		v = r.Period
	case FieldUnit:
		v = r.Unit
	case FieldCluster:
		v = r.Cluster
	case FieldConsultant:
		v = r.Consultant
	default:
		return "", false
	}
	return v, v != ""
}

// Date implements filter.Subject. PEX rows are period based and carry no date.
func (r Record) Date() (time.Time, bool) { return time.Time{}, false }

// NormalizePeriod reduces quarter spellings ("1º", "Q1", "1º QUARTER",
// "Trimestre 1") to the bare digit. Anything else is returned trimmed.
func NormalizePeriod(s string) string {
	s = strings.TrimSpace(s)
	var runs []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			runs = append(runs, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		runs = append(runs, cur.String())
	}
	if len(runs) == 1 && len(runs[0]) == 1 && runs[0] >= "1" && runs[0] <= "4" {
		return runs[0]
	}
	return s
}
