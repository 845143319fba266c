package sheets

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource serves a local .xlsx file. Every Update saves the file.
type WorkbookSource struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// OpenWorkbook opens the workbook at path.
func OpenWorkbook(path string) (*WorkbookSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: missing workbook path", ErrNotConfigured)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &WorkbookSource{file: f, path: path}, nil
}

// CreateWorkbook writes a new workbook at path with one sheet per entry of
// data, rows starting at A1, and opens it.
func CreateWorkbook(path string, data map[string][][]string) (*WorkbookSource, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := true
	for _, sheet := range slices.Sorted(maps.Keys(data)) {
		rows := data[sheet]
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		for i, row := range rows {
			for j, v := range row {
				cell, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save workbook %s: %w", path, err)
	}
	return OpenWorkbook(path)
}

// Values implements Source.
func (w *WorkbookSource) Values(_ context.Context, readRange string) ([][]string, error) {
	r, err := ParseRange(readRange)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.file.GetRows(r.Sheet)
	if err != nil {
		var missing excelize.ErrSheetNotExist
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrNoSheet, r.Sheet)
		}
		return nil, fmt.Errorf("read %s: %w", r, err)
	}
	return r.Clip(rows), nil
}

// Update implements Source and saves the workbook.
func (w *WorkbookSource) Update(_ context.Context, cell, value string) error {
	r, err := ParseRange(cell)
	if err != nil {
		return err
	}
	if r.FromCol == 0 || r.FromRow == 0 {
		return fmt.Errorf("%w: %q is not a single cell", ErrBadRange, cell)
	}
	name, err := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRange, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if idx, err := w.file.GetSheetIndex(r.Sheet); err != nil || idx < 0 {
		return fmt.Errorf("%w: %s", ErrNoSheet, r.Sheet)
	}
	if err := w.file.SetCellValue(r.Sheet, name, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *WorkbookSource) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
