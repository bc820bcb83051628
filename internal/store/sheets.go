package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore keeps worksheets in a Google Sheets spreadsheet, one tab per
// worksheet. Appends go through the values.append endpoint, which places the
// row after the last non-empty row in a single request.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ LogStore = (*SheetsStore)(nil)

// NewSheetsStore authenticates with a service-account JSON key.
func NewSheetsStore(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return NewSheetsStoreWithService(svc, spreadsheetID), nil
}

// NewSheetsStoreWithService wraps an existing client.
func NewSheetsStoreWithService(svc *sheets.Service, spreadsheetID string) *SheetsStore {
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}
}

// EnsureSchema adds missing tabs and writes the header of empty ones.
func (s *SheetsStore) EnsureSchema(ctx context.Context, want ...Worksheet) error {
	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	existing := map[string]bool{}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var requests []*sheets.Request
	for _, ws := range want {
		if !existing[ws.Title] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: ws.Title}},
			})
		}
	}
	if len(requests) > 0 {
		_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("add worksheets: %w", err)
		}
	}

	for _, ws := range want {
		current, err := s.headerRow(ctx, ws)
		if err != nil {
			return err
		}
		if !blank(current) {
			continue
		}
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, headerRange(ws), &sheets.ValueRange{
			Values: [][]interface{}{toCells(ws.Header)},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header of %q: %w", ws.Title, err)
		}
	}
	return nil
}

// AppendRow implements LogStore.
func (s *SheetsStore) AppendRow(ctx context.Context, ws Worksheet, values []string) error {
	current, err := s.headerRow(ctx, ws)
	if err != nil {
		return writeErr(ws, values, err)
	}
	writeHeader, err := checkAppend(ws, current, values)
	if err != nil {
		return err
	}
	// RAW keeps text cells as typed; USER_ENTERED would turn "007" into 7.
	rows := [][]interface{}{typedRow(ws, values)}
	if writeHeader {
		rows = append([][]interface{}{toCells(ws.Header)}, rows...)
	}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, quoteTitle(ws.Title), &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return writeErr(ws, values, classify(err))
	}
	return nil
}

// ReadAll implements LogStore.
func (s *SheetsStore) ReadAll(ctx context.Context, ws Worksheet) (Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteTitle(ws.Title)).Context(ctx).Do()
	if err != nil {
		return Table{}, readErr(ws, classify(err))
	}
	t, err := newTable(ws, fromCells(resp.Values))
	if err != nil {
		return Table{}, readErr(ws, err)
	}
	return t, nil
}

// Ping fetches the spreadsheet metadata.
func (s *SheetsStore) Ping(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	return err
}

// Close implements LogStore.
func (s *SheetsStore) Close() error {
	return nil
}

func (s *SheetsStore) headerRow(ctx context.Context, ws Worksheet) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, headerRange(ws)).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	rows := fromCells(resp.Values)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// quoteTitle renders a tab title as an A1 sheet reference.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func headerRange(ws Worksheet) string {
	return quoteTitle(ws.Title) + "!1:1"
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func fromCells(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, c := range row {
			if c == nil {
				continue
			}
			out[i][j] = fmt.Sprint(c)
		}
	}
	return out
}

// classify maps the API's "unable to parse range" reply for a missing tab
// to ErrWorksheetNotFound.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), "unable to parse range") {
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, apiErr.Message)
	}
	return err
}
