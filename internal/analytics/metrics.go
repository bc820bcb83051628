package analytics

import (
	"sort"
	"strings"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

var unitClasses = map[string]models.UnitClass{
	"km":    models.UnitClassKm,
	"kms":   models.UnitClassKm,
	"hour":  models.UnitClassHour,
	"hours": models.UnitClassHour,
	"hr":    models.UnitClassHour,
	"hrs":   models.UnitClassHour,
}

// ClassifyUnit maps a meter unit onto the km or hour family.
// Anything else, "miles" included, is UnitClassUnknown.
func ClassifyUnit(unit string) models.UnitClass {
	return unitClasses[strings.ToLower(strings.TrimSpace(unit))]
}

// ComputeMetrics returns a copy of records sorted by (asset key, event time)
// with meter deltas and efficiencies filled in.
//
// Previous readings are only ever taken from the same asset key. Records with
// no asset key, and the first record of each key, get an undefined delta.
// Ties on event time keep log order.
func ComputeMetrics(records []models.EnrichedRecord) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AssetKey != out[j].AssetKey {
			return out[i].AssetKey < out[j].AssetKey
		}
		return out[i].EventTime.Before(out[j].EventTime)
	})

	for i := range out {
		rec := &out[i]

		rec.PreviousMeter = cells.None()
		if i > 0 && rec.AssetKey != "" && out[i-1].AssetKey == rec.AssetKey {
			rec.PreviousMeter = out[i-1].CurrentMeter
		}
		rec.MeterDelta = rec.CurrentMeter.Sub(rec.PreviousMeter)
		rec.UnitClass = ClassifyUnit(rec.MeterUnit)

		rec.ActualKmPerL = cells.None()
		rec.ActualLPerHour = cells.None()
		rec.EfficiencyRatio = cells.None()

		switch rec.UnitClass {
		case models.UnitClassKm:
			rec.ActualKmPerL = rec.MeterDelta.Div(rec.FuelOut)
			if rec.BenchmarkKmL.Positive() {
				rec.EfficiencyRatio = rec.ActualKmPerL.Div(rec.BenchmarkKmL)
			}
		case models.UnitClassHour:
			rec.ActualLPerHour = rec.FuelOut.Div(rec.MeterDelta)
		}
	}
	return out
}
