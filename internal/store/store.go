// Package store is the append-only row storage behind the fuel logs and the
// asset directory. Each backend exposes worksheets made of a header row
// followed by data rows, all as text.
package store

import (
	"context"
	"slices"
	"strconv"
	"strings"
)

// LogStore appends rows to, and reads whole, worksheets.
//
// AppendRow writes exactly one row or fails with a *WriteError; a single
// append is atomic. ReadAll returns the complete worksheet or fails with a
// *ReadError or *SchemaError; it never returns a partial table.
type LogStore interface {
	AppendRow(ctx context.Context, ws Worksheet, values []string) error
	ReadAll(ctx context.Context, ws Worksheet) (Table, error)
	// EnsureSchema creates missing worksheets and writes their headers.
	// Safe to run multiple times.
	EnsureSchema(ctx context.Context, sheets ...Worksheet) error
	Ping(ctx context.Context) error
	Close() error
}

// Worksheet describes a fixed-schema worksheet. Column order in Header is the
// order rows are appended in.
type Worksheet struct {
	Title  string
	Header []string
	// Optional columns may be absent from an existing worksheet's header.
	Optional []string
	// Numeric columns hold quantities. Everything else, identifiers
	// included, is text even when it looks like a number.
	Numeric []string
}

// Column names shared by the worksheets.
const (
	ColTimestamp     = "Timestamp"
	ColDate          = "Date"
	ColFleetNo       = "Fleet No"
	ColAssetID       = "Asset ID"
	ColCategory      = "Category"
	ColDescription   = "Description"
	ColPlateNumber   = "Plate Number"
	ColBenchmarkKmL  = "Benchmark_KmL"
	ColSourceTanker  = "Source Tanker"
	ColFuelOut       = "Fuel Out (L)"
	ColCurrentMeter  = "Current Meter"
	ColMeterUnit     = "Meter Unit"
	ColTankerNo      = "Tanker No"
	ColSourceStation = "Source Station"
	ColFuelIn        = "Fuel In (L)"
)

var (
	// Assets is the asset directory.
	Assets = Worksheet{
		Title:    "Assets",
		Header:   []string{ColFleetNo, ColAssetID, ColCategory, ColDescription, ColPlateNumber, ColBenchmarkKmL},
		Optional: []string{ColBenchmarkKmL},
		Numeric:  []string{ColBenchmarkKmL},
	}

	// Dispensing is the fuel-out log.
	Dispensing = Worksheet{
		Title: "Tanker Dispensing",
		Header: []string{
			ColTimestamp, ColDate, ColFleetNo, ColAssetID, ColCategory, ColDescription,
			ColSourceTanker, ColFuelOut, ColCurrentMeter, ColMeterUnit,
		},
		Numeric: []string{ColFuelOut, ColCurrentMeter},
	}

	// Receipts is the fuel-in log.
	Receipts = Worksheet{
		Title:   "Tanker Receipts",
		Header:  []string{ColTimestamp, ColDate, ColTankerNo, ColSourceStation, ColFuelIn},
		Numeric: []string{ColFuelIn},
	}
)

// Worksheets lists every worksheet the service uses.
func Worksheets() []Worksheet {
	return []Worksheet{Assets, Dispensing, Receipts}
}

// IsNumeric reports whether col holds quantities.
func (w Worksheet) IsNumeric(col string) bool {
	return slices.Contains(w.Numeric, col)
}

// typedRow converts values for backends that keep cell types. Numeric
// columns that parse become float64; every other cell is sent as text.
func typedRow(ws Worksheet, values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
		if i >= len(ws.Header) || !ws.IsNumeric(ws.Header[i]) {
			continue
		}
		if num, err := strconv.ParseFloat(v, 64); err == nil {
			row[i] = num
		}
	}
	return row
}

// Required returns the header columns that must be present on read.
func (w Worksheet) Required() []string {
	var out []string
	for _, col := range w.Header {
		if !slices.Contains(w.Optional, col) {
			out = append(out, col)
		}
	}
	return out
}

// CheckHeader returns a *SchemaError when header lacks a required column.
// Extra columns and a different order are accepted.
func (w Worksheet) CheckHeader(header []string) error {
	var missing []string
	for _, col := range w.Required() {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Worksheet: w.Title, Expected: w.Header, Found: header, Missing: missing}
	}
	return nil
}

// Table is a worksheet's header and data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the worksheet has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Index returns the position of column name in the header, or -1.
func (t Table) Index(name string) int {
	return slices.Index(t.Header, name)
}

// Value returns the cell of row in column name, or "" when the column or cell
// is absent.
func (t Table) Value(row []string, name string) string {
	i := t.Index(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// newTable builds a table from raw rows where the first row is the header.
// Header cells are trimmed, fully blank rows are dropped, and the header is
// validated against ws.
func newTable(ws Worksheet, raw [][]string) (Table, error) {
	if len(raw) == 0 || blank(raw[0]) {
		return Table{}, nil
	}
	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(h)
	}
	if err := ws.CheckHeader(header); err != nil {
		return Table{}, err
	}
	t := Table{Header: header, Rows: make([][]string, 0, len(raw)-1)}
	for _, row := range raw[1:] {
		if blank(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// checkAppend validates an append against the worksheet's current header.
// It reports whether the header still has to be written first.
func checkAppend(ws Worksheet, current []string, values []string) (writeHeader bool, err error) {
	if len(values) != len(ws.Header) {
		return false, &WriteError{
			Worksheet: ws.Title,
			Row:       values,
			Err:       &SchemaError{Worksheet: ws.Title, Expected: ws.Header, Found: nil},
		}
	}
	if blank(current) {
		return true, nil
	}
	trimmed := make([]string, len(current))
	for i, h := range current {
		trimmed[i] = strings.TrimSpace(h)
	}
	if !slices.Equal(trimmed, ws.Header) {
		return false, &WriteError{
			Worksheet: ws.Title,
			Row:       values,
			Err:       &SchemaError{Worksheet: ws.Title, Expected: ws.Header, Found: trimmed},
		}
	}
	return false, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
