package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore keeps worksheets in a local Excel workbook. Every append opens,
// edits and saves the file under a process-local lock, so one append is one
// save. It does not coordinate with other processes writing the same file.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

var _ LogStore = (*XLSXStore)(nil)

// NewXLSXStore returns a store backed by the workbook at path. The file is
// created by EnsureSchema when it does not exist yet.
func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

// Path returns the workbook location.
func (x *XLSXStore) Path() string {
	return x.path
}

func (x *XLSXStore) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(x.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrWorksheetNotFound
	}
	return f, err
}

// EnsureSchema implements LogStore.
func (x *XLSXStore) EnsureSchema(ctx context.Context, sheets ...Worksheet) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	created := false
	if errors.Is(err, fs.ErrNotExist) {
		f, created = excelize.NewFile(), true
	} else if err != nil {
		return err
	}
	defer f.Close()

	for _, ws := range sheets {
		idx, err := f.GetSheetIndex(ws.Title)
		if err != nil {
			return err
		}
		if idx < 0 {
			if _, err := f.NewSheet(ws.Title); err != nil {
				return err
			}
		}
		rows, err := f.GetRows(ws.Title)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := setHeader(f, ws); err != nil {
				return err
			}
		}
	}
	if created && len(sheets) > 0 {
		// NewFile starts with a default sheet nobody reads.
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	return f.SaveAs(x.path)
}

// AppendRow implements LogStore.
func (x *XLSXStore) AppendRow(ctx context.Context, ws Worksheet, values []string) error {
	if err := ctx.Err(); err != nil {
		return writeErr(ws, values, err)
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := x.open()
	if err != nil {
		return writeErr(ws, values, err)
	}
	defer f.Close()

	rows, err := f.GetRows(ws.Title)
	if err != nil {
		return writeErr(ws, values, sheetErr(err))
	}
	var current []string
	if len(rows) > 0 {
		current = rows[0]
	}
	writeHeader, err := checkAppend(ws, current, values)
	if err != nil {
		return err
	}

	next := len(rows) + 1
	if writeHeader {
		if err := setHeader(f, ws); err != nil {
			return writeErr(ws, values, err)
		}
		next = 2
	}
	if err := setRow(f, ws, next, values); err != nil {
		return writeErr(ws, values, err)
	}
	if err := f.Save(); err != nil {
		return writeErr(ws, values, err)
	}
	return nil
}

// ReadAll implements LogStore.
func (x *XLSXStore) ReadAll(ctx context.Context, ws Worksheet) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, readErr(ws, err)
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := x.open()
	if err != nil {
		return Table{}, readErr(ws, err)
	}
	defer f.Close()

	rows, err := f.GetRows(ws.Title)
	if err != nil {
		return Table{}, readErr(ws, sheetErr(err))
	}
	t, err := newTable(ws, rows)
	if err != nil {
		return Table{}, readErr(ws, err)
	}
	return t, nil
}

// Ping checks that the workbook exists.
func (x *XLSXStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(x.path); err != nil {
		return err
	}
	return nil
}

// Close implements LogStore.
func (x *XLSXStore) Close() error {
	return nil
}

// setHeader writes the header as text into row 1.
func setHeader(f *excelize.File, ws Worksheet) error {
	return writeRow(f, ws.Title, 1, toCells(ws.Header))
}

// setRow writes values into row n. Quantities are stored as numbers so the
// workbook stays usable in a spreadsheet application; other columns stay text
// so identifiers such as "007" keep their leading zeros.
func setRow(f *excelize.File, ws Worksheet, n int, values []string) error {
	return writeRow(f, ws.Title, n, typedRow(ws, values))
}

func writeRow(f *excelize.File, sheet string, n int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func sheetErr(err error) error {
	var missing excelize.ErrSheetNotExist
	if errors.As(err, &missing) {
		return ErrWorksheetNotFound
	}
	return err
}
