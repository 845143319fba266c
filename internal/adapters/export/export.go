// Package export renders table views as downloadable files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/okian/painel/internal/domain/table"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is a download format.
type Format string

const (
	XLSX Format = "xlsx"
	TSV  Format = "tsv"
	CSV  Format = "csv"
)

// ParseFormat accepts xlsx, tsv and csv. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return XLSX, nil
	case XLSX, TSV, CSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case TSV:
		return "text/tab-separated-values; charset=utf-8"
	case CSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Ext is the file extension of f.
func (f Format) Ext() string { return string(f) }

// Write renders rows in format f. Delimited formats use tabs for tsv and
// semicolons for csv.
func Write(w io.Writer, f Format, sheet string, cols []table.Column, rows []table.Row) error {
	switch f {
	case TSV:
		return table.Export(w, cols, rows, table.Tab)
	case CSV:
		return table.Export(w, cols, rows, table.Semicolon)
	case XLSX:
		return Workbook(w, sheet, cols, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

const (
	minWidth = 8
	maxWidth = 60

	// maxSheetName is the sheet name limit of xlsx, in characters.
	maxSheetName = 31
)

// Workbook writes a single-sheet .xlsx with a bold header row. Numeric
// cells stay numeric and columns are sized to their longest text.
func Workbook(w io.Writer, sheet string, cols []table.Column, rows []table.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Dados"
	}
	if r := []rune(sheet); len(r) > maxSheetName {
		sheet = string(r[:maxSheetName])
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("sheet name: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1A659E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.Label); err != nil {
			return err
		}
		widths[i] = utf8.RuneCountInString(c.Label)
	}
	if len(cols) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			text := c.Text(row)
			if err := f.SetCellValue(sheet, cell, value(row[c.Key], text)); err != nil {
				return err
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(text))
		}
	}

	for i, wd := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(min(max(wd+2, minWidth), maxWidth))); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// value keeps numbers numeric so spreadsheets can sum them.
func value(raw any, text string) any {
	switch v := raw.(type) {
	case float64, float32, int, int64:
		return v
	}
	return text
}
