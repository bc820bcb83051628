// Package analytics turns decoded fuel logs into consumption metrics,
// data-quality flags, tanker balances and dashboard KPIs.
//
// Every function in this package is pure and total: it never returns an
// error and never mutates its input. Missing or unusable data shows up as
// undefined cells.Number values and quality reason codes.
package analytics

import (
	"strings"

	"github.com/PratikDhanave/fuel-command-center/internal/fleet"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// Enrich joins dispense events with the asset directory.
//
// The join is on Fleet No, falling back to Asset ID. When a directory row
// matches, its non-empty fields replace the event's snapshot; when nothing
// matches, the snapshot is kept and benchmark/plate stay empty.
func Enrich(events []models.DispenseEvent, dir *fleet.Directory) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, 0, len(events))
	for _, ev := range events {
		out = append(out, enrichEvent(ev, dir))
	}
	return out
}

func enrichEvent(ev models.DispenseEvent, dir *fleet.Directory) models.EnrichedRecord {
	rec := models.EnrichedRecord{
		DispenseEvent: ev,
		AssetKey:      models.AssetKey(ev.FleetNo, ev.AssetID),
		Category:      fleet.NormalizeCategory(ev.Category),
		Description:   strings.TrimSpace(ev.Description),
		EventTime:     ev.Timestamp,
	}
	if !rec.EventTime.Valid {
		rec.EventTime = ev.Date
	}

	asset, ok := dir.Lookup(ev.FleetNo, ev.AssetID)
	if !ok {
		return rec
	}
	rec.DirectoryMatch = true
	if asset.Category != "" {
		rec.Category = asset.Category
	}
	if desc := strings.TrimSpace(asset.Description); desc != "" {
		rec.Description = desc
	}
	rec.PlateNumber = strings.TrimSpace(asset.PlateNumber)
	rec.BenchmarkKmL = asset.BenchmarkKmL
	return rec
}
