// Package sheets reads and writes spreadsheet ranges in Google Sheets or a
// local workbook.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Source reads ranges and writes single cells.
type Source interface {
	// Values returns the formatted cell text of readRange, row by row.
	// Trailing empty cells and rows may be omitted.
	Values(ctx context.Context, readRange string) ([][]string, error)
	// Update writes value to one cell as if typed by a user.
	Update(ctx context.Context, cell, value string) error
}

// Range is a parsed A1 range. Zero bounds are open.
type Range struct {
	Sheet   string
	FromCol int
	FromRow int
	ToCol   int
	ToRow   int
}

// ParseRange parses "SHEET", "SHEET!A:H", "SHEET!A2:H" and "'My Sheet'!B3:C9".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	sheet, cells, hasCells := cutSheet(s)
	if sheet == "" {
		return Range{}, fmt.Errorf("%w: %q has no sheet", ErrBadRange, s)
	}
	r := Range{Sheet: sheet}
	if !hasCells || cells == "" {
		return r, nil
	}

	from, to, isSpan := strings.Cut(cells, ":")
	var err error
	if r.FromCol, r.FromRow, err = parseRef(from); err != nil {
		return Range{}, fmt.Errorf("%w: %q: %w", ErrBadRange, s, err)
	}
	if !isSpan {
		r.ToCol, r.ToRow = r.FromCol, r.FromRow
		return r, nil
	}
	if r.ToCol, r.ToRow, err = parseRef(to); err != nil {
		return Range{}, fmt.Errorf("%w: %q: %w", ErrBadRange, s, err)
	}
	if (r.ToCol != 0 && r.FromCol > r.ToCol) || (r.ToRow != 0 && r.FromRow > r.ToRow) {
		return Range{}, fmt.Errorf("%w: %q is reversed", ErrBadRange, s)
	}
	return r, nil
}

func cutSheet(s string) (sheet, cells string, ok bool) {
	if strings.HasPrefix(s, "'") {
		end := strings.LastIndex(s, "'")
		if end <= 0 {
			return "", "", false
		}
		sheet = strings.ReplaceAll(s[1:end], "''", "'")
		rest := s[end+1:]
		if rest == "" {
			return sheet, "", false
		}
		if rest[0] != '!' {
			return "", "", false
		}
		return sheet, rest[1:], true
	}
	i := strings.LastIndex(s, "!")
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// parseRef reads "C", "5" or "C5". Missing parts are 0.
func parseRef(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(ref, "$", "")))
	i := strings.IndexFunc(ref, unicode.IsDigit)
	if i < 0 {
		i = len(ref)
	}
	letters, digits := ref[:i], ref[i:]
	if letters == "" && digits == "" {
		return 0, 0, fmt.Errorf("empty reference")
	}
	if letters != "" {
		if col, err = excelize.ColumnNameToNumber(letters); err != nil {
			return 0, 0, err
		}
	}
	if digits != "" {
		if row, err = strconv.Atoi(digits); err != nil || row < 1 {
			return 0, 0, fmt.Errorf("bad row %q", digits)
		}
	}
	return col, row, nil
}

// String renders r in A1 notation with the sheet name quoted when needed.
func (r Range) String() string {
	s := QuoteSheet(r.Sheet)
	if r.FromCol == 0 && r.FromRow == 0 && r.ToCol == 0 && r.ToRow == 0 {
		return s
	}
	return s + "!" + ref(r.FromCol, r.FromRow) + ":" + ref(r.ToCol, r.ToRow)
}

func ref(col, row int) string {
	var s string
	if col > 0 {
		s, _ = excelize.ColumnNumberToName(col)
	}
	if row > 0 {
		s += strconv.Itoa(row)
	}
	return s
}

// Clip applies the column and row bounds of r to rows read from the top-left
// corner of a sheet and drops trailing empty cells.
func (r Range) Clip(rows [][]string) [][]string {
	from := max(r.FromRow, 1) - 1
	to := len(rows)
	if r.ToRow > 0 {
		to = min(to, r.ToRow)
	}
	if from >= to {
		return [][]string{}
	}

	out := make([][]string, 0, to-from)
	for _, row := range rows[from:to] {
		lo := max(r.FromCol, 1) - 1
		hi := len(row)
		if r.ToCol > 0 {
			hi = min(hi, r.ToCol)
		}
		var cells []string
		if lo < hi {
			cells = append([]string(nil), row[lo:hi]...)
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		out = append(out, cells)
	}
	return out
}

// FirstRow is the 1-based sheet row of the first row returned for r.
func (r Range) FirstRow() int { return max(r.FromRow, 1) }

// FirstCol is the 1-based sheet column of the first cell returned for r.
func (r Range) FirstCol() int { return max(r.FromCol, 1) }

// Cell renders the address of one cell, e.g. "'Metas 2025'!C5".
func Cell(sheet string, col, row int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadRange, err)
	}
	return QuoteSheet(sheet) + "!" + name, nil
}

// QuoteSheet wraps a sheet name in single quotes unless it is a plain word.
func QuoteSheet(name string) string {
	plain := name != ""
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
