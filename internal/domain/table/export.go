package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

// Delimiter separates fields in a delimited export.
type Delimiter rune

const (
	Tab       Delimiter = '\t'
	Semicolon Delimiter = ';'
)

// Export writes a header row of labels followed by the display text of
// every row in the given order.
func Export(w io.Writer, cols []Column, rows []Row, d Delimiter) error {
	cw := csv.NewWriter(w)
	cw.Comma = rune(d)

	record := make([]string, len(cols))
	for i, c := range cols {
		record[i] = c.Label
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for n, row := range rows {
		for i, c := range cols {
			record[i] = c.Text(row)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", n+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds "<Label>_<Context>_<yyyy-mm-dd>.<ext>". Whitespace becomes
// underscores and an empty context is left out.
func Filename(label, context, ext string, now time.Time) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{label, context} {
		if p = safe(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, now.Format(time.DateOnly))
	return strings.Join(parts, "_") + "." + strings.TrimPrefix(ext, ".")
}

func safe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
