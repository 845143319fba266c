// Package table implements the search, sort, pagination and export rules
// shared by every tabular view.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/painel/internal/domain/normalize"
)

// Row is one table row keyed by column key.
type Row = map[string]any

// Column describes one rendered column.
type Column struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Format normalize.Kind `json:"-"`
}

// Text returns the display text of the column in row.
func (c Column) Text(row Row) string {
	v, ok := row[c.Key]
	if !ok || v == nil {
		return ""
	}
	switch c.Format {
	case normalize.KindCurrency:
		return normalize.Currency(normalize.Number(v))
	case normalize.KindPercent:
		return normalize.Percent(normalize.Number(v))
	case normalize.KindInteger:
		return normalize.Integer(normalize.Number(v))
	case normalize.KindDecimal:
		return normalize.Decimal(normalize.Number(v))
	}
	return raw(v)
}

func raw(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case interface{ String() string }:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Search keeps the rows where any column's display text contains q,
// ignoring case. A blank query keeps every row.
func Search(rows []Row, cols []Column, q string) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, c := range cols {
			if strings.Contains(strings.ToLower(c.Text(row)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
