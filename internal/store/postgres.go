package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore keeps worksheets as rows of text arrays in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ LogStore = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql and registers worksheet headers.
func (p *PostgresStore) EnsureSchema(ctx context.Context, sheets ...Worksheet) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return err
	}
	for _, ws := range sheets {
		if _, err := p.pool.Exec(ctx, `
			INSERT INTO worksheet_headers(worksheet, header)
			VALUES ($1, $2)
			ON CONFLICT (worksheet) DO NOTHING
		`, ws.Title, ws.Header); err != nil {
			return err
		}
	}
	return nil
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// AppendRow inserts one row in a single transaction. The header row is
// registered on first use and checked on every append.
func (p *PostgresStore) AppendRow(ctx context.Context, ws Worksheet, values []string) error {
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		current, err := headerOf(ctx, tx, ws)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWorksheetNotFound
		}
		if err != nil {
			return err
		}
		writeHeader, err := checkAppend(ws, current, values)
		if err != nil {
			return err
		}
		if writeHeader {
			if _, err := tx.Exec(ctx, `
				INSERT INTO worksheet_headers(worksheet, header)
				VALUES ($1, $2)
				ON CONFLICT (worksheet) DO UPDATE SET header = EXCLUDED.header
			`, ws.Title, ws.Header); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO worksheet_rows(worksheet, cells)
			VALUES ($1, $2)
		`, ws.Title, values)
		return err
	})
	if err != nil {
		return writeErr(ws, values, err)
	}
	return nil
}

// ReadAll returns the worksheet's header and rows in append order.
func (p *PostgresStore) ReadAll(ctx context.Context, ws Worksheet) (Table, error) {
	header, err := headerOf(ctx, p.pool, ws)
	if errors.Is(err, pgx.ErrNoRows) {
		return Table{}, readErr(ws, ErrWorksheetNotFound)
	}
	if err != nil {
		return Table{}, readErr(ws, err)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT cells
		FROM worksheet_rows
		WHERE worksheet = $1
		ORDER BY id
	`, ws.Title)
	if err != nil {
		return Table{}, readErr(ws, err)
	}
	cells, err := pgx.CollectRows(rows, pgx.RowTo[[]string])
	if err != nil {
		return Table{}, readErr(ws, err)
	}

	t, err := newTable(ws, append([][]string{header}, cells...))
	if err != nil {
		return Table{}, readErr(ws, err)
	}
	return t, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func headerOf(ctx context.Context, q querier, ws Worksheet) ([]string, error) {
	var header []string
	err := q.QueryRow(ctx, `
		SELECT header
		FROM worksheet_headers
		WHERE worksheet = $1
	`, ws.Title).Scan(&header)
	return header, err
}
