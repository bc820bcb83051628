package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps worksheets in process memory. It backs tests and local
// runs without a spreadsheet or database.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: map[string][][]string{}}
}

// Seed replaces a worksheet with header plus rows.
func (m *MemoryStore) Seed(ws Worksheet, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := [][]string{slices.Clone(ws.Header)}
	for _, r := range rows {
		raw = append(raw, slices.Clone(r))
	}
	m.sheets[ws.Title] = raw
}

// AppendRow implements LogStore.
func (m *MemoryStore) AppendRow(ctx context.Context, ws Worksheet, values []string) error {
	if err := ctx.Err(); err != nil {
		return writeErr(ws, values, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.sheets[ws.Title]
	if !ok {
		return writeErr(ws, values, ErrWorksheetNotFound)
	}
	var current []string
	if len(raw) > 0 {
		current = raw[0]
	}
	writeHeader, err := checkAppend(ws, current, values)
	if err != nil {
		return err
	}
	if writeHeader {
		raw = [][]string{slices.Clone(ws.Header)}
	}
	m.sheets[ws.Title] = append(raw, slices.Clone(values))
	return nil
}

// ReadAll implements LogStore.
func (m *MemoryStore) ReadAll(ctx context.Context, ws Worksheet) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, readErr(ws, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.sheets[ws.Title]
	if !ok {
		return Table{}, readErr(ws, ErrWorksheetNotFound)
	}
	copied := make([][]string, len(raw))
	for i, r := range raw {
		copied[i] = slices.Clone(r)
	}
	t, err := newTable(ws, copied)
	if err != nil {
		return Table{}, readErr(ws, err)
	}
	return t, nil
}

// EnsureSchema implements LogStore.
func (m *MemoryStore) EnsureSchema(ctx context.Context, sheets ...Worksheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ws := range sheets {
		if raw, ok := m.sheets[ws.Title]; ok && len(raw) > 0 {
			continue
		}
		m.sheets[ws.Title] = [][]string{slices.Clone(ws.Header)}
	}
	return nil
}

// Ping implements LogStore.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements LogStore.
func (m *MemoryStore) Close() error {
	return nil
}
