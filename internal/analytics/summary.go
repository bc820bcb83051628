package analytics

import (
	"sort"

	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

const (
	topConsumers       = 5
	recentTransactions = 10
)

// FuelTotal is the fuel dispensed to one group.
type FuelTotal struct {
	Name    string  `json:"name"`
	FuelOut float64 `json:"fuel_out_l"`
}

// Summary holds the dashboard KPIs for a set of dispense records.
type Summary struct {
	TotalFuel    float64                 `json:"total_fuel_l"`
	Transactions int                     `json:"transactions"`
	ActiveAssets int                     `json:"active_assets"`
	ByCategory   []FuelTotal             `json:"by_category"`
	TopConsumers []FuelTotal             `json:"top_consumers"`
	Recent       []models.EnrichedRecord `json:"recent"`
}

// Summarize computes dashboard KPIs. records must be in log order; Recent
// holds the last appended rows, newest first. Undefined volumes count as zero.
func Summarize(records []models.EnrichedRecord) Summary {
	s := Summary{Transactions: len(records)}

	byCategory := map[string]float64{}
	byAsset := map[string]float64{}
	for _, r := range records {
		fuel := r.FuelOut.Or(0)
		s.TotalFuel += fuel
		byCategory[string(r.Category)] += fuel
		if r.AssetKey != "" {
			byAsset[r.AssetKey] += fuel
		}
	}
	s.ActiveAssets = len(byAsset)
	s.ByCategory = ranked(byCategory, 0)
	s.TopConsumers = ranked(byAsset, topConsumers)

	n := min(recentTransactions, len(records))
	s.Recent = make([]models.EnrichedRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		s.Recent = append(s.Recent, records[i])
	}
	return s
}

// ranked sorts totals by volume, largest first, and keeps at most limit
// entries when limit > 0.
func ranked(totals map[string]float64, limit int) []FuelTotal {
	out := make([]FuelTotal, 0, len(totals))
	for name, fuel := range totals {
		out = append(out, FuelTotal{Name: name, FuelOut: fuel})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FuelOut != out[j].FuelOut {
			return out[i].FuelOut > out[j].FuelOut
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterWindow keeps the records whose event day lies in window, preserving order.
func FilterWindow(records []models.EnrichedRecord, window Window) []models.EnrichedRecord {
	if window.IsZero() {
		return records
	}
	out := make([]models.EnrichedRecord, 0, len(records))
	for _, r := range records {
		if window.Contains(r.Day()) {
			out = append(out, r)
		}
	}
	return out
}
