package store

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendXLSX     = "xlsx"
	BackendSheets   = "sheets"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	DBURL    string
	XLSXPath string

	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
}

// Open constructs the configured backend. The caller owns the returned store
// and must Close it.
func Open(ctx context.Context, opts Options) (LogStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DBURL)
	case BackendXLSX:
		return NewXLSXStore(opts.XLSXPath), nil
	case BackendSheets:
		creds := []byte(opts.CredentialsJSON)
		if len(creds) == 0 {
			b, err := os.ReadFile(opts.CredentialsFile)
			if err != nil {
				return nil, fmt.Errorf("read sheets credentials: %w", err)
			}
			creds = b
		}
		return NewSheetsStore(ctx, opts.SpreadsheetID, creds)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
