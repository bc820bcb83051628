// Package fuel is the application layer: it reads the worksheets, runs the
// analytics and appends new transactions. Every call performs one full read
// of the worksheets it needs; nothing is cached between calls.
package fuel

import (
	"context"
	"time"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/codec"
	"github.com/PratikDhanave/fuel-command-center/internal/fleet"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// Notifier is told about every row that was appended successfully.
type Notifier interface {
	Appended(ctx context.Context, ws store.Worksheet, values []string, operator string)
}

// Service wires a LogStore to the analytics.
type Service struct {
	store    store.LogStore
	limits   analytics.Limits
	tankers  []string
	capacity float64
	notifier Notifier
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLimits sets the default quality limits.
func WithLimits(l analytics.Limits) Option {
	return func(s *Service) { s.limits = l }
}

// WithTankers sets the roster used when the directory lists no tankers.
func WithTankers(tankers []string) Option {
	return func(s *Service) { s.tankers = append([]string(nil), tankers...) }
}

// WithTankerCapacity sets the nominal tanker volume in liters.
func WithTankerCapacity(capacity float64) Option {
	return func(s *Service) { s.capacity = capacity }
}

// WithNotifier registers a notifier for appended rows.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides time.Now for stamping new rows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service over st.
func NewService(st store.LogStore, opts ...Option) *Service {
	s := &Service{
		store:    st,
		limits:   analytics.DefaultLimits(),
		tankers:  append([]string(nil), fleet.DefaultTankers...),
		capacity: analytics.DefaultTankerCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the configured quality limits.
func (s *Service) Limits() analytics.Limits {
	return s.limits
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Directory reads the asset directory.
func (s *Service) Directory(ctx context.Context) (*fleet.Directory, error) {
	t, err := s.store.ReadAll(ctx, store.Assets)
	if err != nil {
		return nil, err
	}
	return fleet.NewDirectory(codec.Assets(t)), nil
}

// Search returns the assets whose search label contains q.
func (s *Service) Search(ctx context.Context, q string) ([]models.Asset, error) {
	dir, err := s.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.Search(q), nil
}

// Tankers returns the tanker roster: directory tankers, else the configured defaults.
func (s *Service) Tankers(ctx context.Context) ([]string, error) {
	dir, err := s.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.Tankers(s.tankers), nil
}

func (s *Service) dispenses(ctx context.Context) ([]models.DispenseEvent, error) {
	t, err := s.store.ReadAll(ctx, store.Dispensing)
	if err != nil {
		return nil, err
	}
	return codec.Dispenses(t), nil
}

func (s *Service) receipts(ctx context.Context) ([]models.ReceiptEvent, error) {
	t, err := s.store.ReadAll(ctx, store.Receipts)
	if err != nil {
		return nil, err
	}
	return codec.Receipts(t), nil
}

// enriched reads the directory and the dispensing log and joins them, in log order.
func (s *Service) enriched(ctx context.Context) (*fleet.Directory, []models.EnrichedRecord, error) {
	dir, err := s.Directory(ctx)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.dispenses(ctx)
	if err != nil {
		return nil, nil, err
	}
	return dir, analytics.Enrich(events, dir), nil
}
