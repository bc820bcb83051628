package fuel

import (
	"context"
	"strings"
	"time"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// QualityReport is the outcome of a quality run over a window.
type QualityReport struct {
	Checked int                    `json:"checked"`
	Flagged []models.FlaggedRecord `json:"flagged"`
	Counts  map[models.Reason]int  `json:"counts"`
	Limits  analytics.Limits       `json:"limits"`
}

// Report bundles every view for one window. It backs the workbook and
// metrics exports.
type Report struct {
	GeneratedAt time.Time
	Window      analytics.Window
	Summary     analytics.Summary
	Records     []models.EnrichedRecord
	Quality     QualityReport
	Balances    []models.TankerBalance
}

// Dashboard returns the KPIs for window.
func (s *Service) Dashboard(ctx context.Context, window analytics.Window) (analytics.Summary, error) {
	_, records, err := s.enriched(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(analytics.FilterWindow(records, window)), nil
}

// Consumption returns enriched records with metrics, ordered by asset and
// time. Metrics are computed over the whole log before the window and asset
// filters apply, so the first record in a window still has a previous meter.
func (s *Service) Consumption(ctx context.Context, window analytics.Window, assetKey string) ([]models.EnrichedRecord, error) {
	_, records, err := s.enriched(ctx)
	if err != nil {
		return nil, err
	}
	records = analytics.FilterWindow(analytics.ComputeMetrics(records), window)
	assetKey = strings.TrimSpace(assetKey)
	if assetKey == "" {
		return records, nil
	}
	out := make([]models.EnrichedRecord, 0)
	for _, r := range records {
		if r.AssetKey == assetKey {
			out = append(out, r)
		}
	}
	return out, nil
}

// Quality evaluates the records in window against limits.
func (s *Service) Quality(ctx context.Context, window analytics.Window, limits analytics.Limits) (QualityReport, error) {
	records, err := s.Consumption(ctx, window, "")
	if err != nil {
		return QualityReport{}, err
	}
	return quality(records, limits), nil
}

func quality(records []models.EnrichedRecord, limits analytics.Limits) QualityReport {
	flagged, counts := analytics.Evaluate(records, limits)
	return QualityReport{Checked: len(records), Flagged: flagged, Counts: counts, Limits: limits}
}

// Balances returns the tanker inventories for window in roster order.
func (s *Service) Balances(ctx context.Context, window analytics.Window) ([]models.TankerBalance, error) {
	roster, err := s.Tankers(ctx)
	if err != nil {
		return nil, err
	}
	dispenses, err := s.dispenses(ctx)
	if err != nil {
		return nil, err
	}
	receipts, err := s.receipts(ctx)
	if err != nil {
		return nil, err
	}
	return s.balances(dispenses, receipts, roster, window), nil
}

func (s *Service) balances(dispenses []models.DispenseEvent, receipts []models.ReceiptEvent, roster []string, window analytics.Window) []models.TankerBalance {
	byTanker := analytics.Balances(dispenses, receipts, roster, window)
	out := make([]models.TankerBalance, 0, len(byTanker))
	seen := map[string]bool{}
	for _, t := range roster {
		t = strings.TrimSpace(t)
		b, ok := byTanker[t]
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, analytics.WithCapacity(b, s.capacity))
	}
	return out
}

// Report computes every view for window with the configured limits, reading
// each worksheet once.
func (s *Service) Report(ctx context.Context, window analytics.Window) (Report, error) {
	dir, err := s.Directory(ctx)
	if err != nil {
		return Report{}, err
	}
	dispenses, err := s.dispenses(ctx)
	if err != nil {
		return Report{}, err
	}
	receipts, err := s.receipts(ctx)
	if err != nil {
		return Report{}, err
	}

	enriched := analytics.Enrich(dispenses, dir)
	records := analytics.FilterWindow(analytics.ComputeMetrics(enriched), window)
	return Report{
		GeneratedAt: s.now().UTC(),
		Window:      window,
		Summary:     analytics.Summarize(analytics.FilterWindow(enriched, window)),
		Records:     records,
		Quality:     quality(records, s.limits),
		Balances:    s.balances(dispenses, receipts, dir.Tankers(s.tankers), window),
	}, nil
}
