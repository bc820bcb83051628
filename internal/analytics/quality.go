package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// Limits are the plausibility bounds used by Evaluate.
type Limits struct {
	MaxKmDelta         float64 `json:"max_km_delta" yaml:"max_km_delta" mapstructure:"max_km_delta"`
	MaxHourDelta       float64 `json:"max_hour_delta" yaml:"max_hour_delta" mapstructure:"max_hour_delta"`
	MaxFuelOut         float64 `json:"max_fuel_out" yaml:"max_fuel_out" mapstructure:"max_fuel_out"`
	MinKmPerL          float64 `json:"min_km_per_l" yaml:"min_km_per_l" mapstructure:"min_km_per_l"`
	MaxKmPerL          float64 `json:"max_km_per_l" yaml:"max_km_per_l" mapstructure:"max_km_per_l"`
	MinEfficiencyRatio float64 `json:"min_efficiency_ratio" yaml:"min_efficiency_ratio" mapstructure:"min_efficiency_ratio"`
	MaxEfficiencyRatio float64 `json:"max_efficiency_ratio" yaml:"max_efficiency_ratio" mapstructure:"max_efficiency_ratio"`
}

// DefaultLimits returns the bounds used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxKmDelta:         2000,
		MaxHourDelta:       100,
		MaxFuelOut:         1000,
		MinKmPerL:          0.5,
		MaxKmPerL:          25,
		MinEfficiencyRatio: 0.75,
		MaxEfficiencyRatio: 1.25,
	}
}

// Validate rejects non-finite values, negative ceilings and inverted bands.
func (l Limits) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max_km_delta", l.MaxKmDelta},
		{"max_hour_delta", l.MaxHourDelta},
		{"max_fuel_out", l.MaxFuelOut},
		{"min_km_per_l", l.MinKmPerL},
		{"max_km_per_l", l.MaxKmPerL},
		{"min_efficiency_ratio", l.MinEfficiencyRatio},
		{"max_efficiency_ratio", l.MaxEfficiencyRatio},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be a finite number", f.name)
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max_km_delta", l.MaxKmDelta},
		{"max_hour_delta", l.MaxHourDelta},
		{"max_fuel_out", l.MaxFuelOut},
		{"min_km_per_l", l.MinKmPerL},
		{"min_efficiency_ratio", l.MinEfficiencyRatio},
	} {
		if f.value < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
	}
	if l.MinKmPerL > l.MaxKmPerL {
		return fmt.Errorf("min_km_per_l %.2f exceeds max_km_per_l %.2f", l.MinKmPerL, l.MaxKmPerL)
	}
	if l.MinEfficiencyRatio > l.MaxEfficiencyRatio {
		return fmt.Errorf("min_efficiency_ratio %.2f exceeds max_efficiency_ratio %.2f", l.MinEfficiencyRatio, l.MaxEfficiencyRatio)
	}
	return nil
}

type check struct {
	reason models.Reason
	fails  func(r models.EnrichedRecord, unit models.UnitClass, l Limits) bool
}

// checks run in the order reasons are reported.
var checks = []check{
	{models.ReasonInvalidMeterDelta, func(r models.EnrichedRecord, _ models.UnitClass, _ Limits) bool {
		return !r.MeterDelta.Positive()
	}},
	{models.ReasonNonPositiveFuel, func(r models.EnrichedRecord, _ models.UnitClass, _ Limits) bool {
		return !r.FuelOut.Positive()
	}},
	{models.ReasonUnrecognizedUnit, func(_ models.EnrichedRecord, unit models.UnitClass, _ Limits) bool {
		return unit == models.UnitClassUnknown
	}},
	{models.ReasonExtremeDistance, func(r models.EnrichedRecord, unit models.UnitClass, l Limits) bool {
		return unit == models.UnitClassKm && r.MeterDelta.Valid && r.MeterDelta.Value > l.MaxKmDelta
	}},
	{models.ReasonExtremeHours, func(r models.EnrichedRecord, unit models.UnitClass, l Limits) bool {
		return unit == models.UnitClassHour && r.MeterDelta.Valid && r.MeterDelta.Value > l.MaxHourDelta
	}},
	{models.ReasonExcessiveFuel, func(r models.EnrichedRecord, _ models.UnitClass, l Limits) bool {
		return r.FuelOut.Valid && r.FuelOut.Value > l.MaxFuelOut
	}},
	{models.ReasonEfficiencyOutlier, func(r models.EnrichedRecord, unit models.UnitClass, l Limits) bool {
		v := r.ActualKmPerL
		return unit == models.UnitClassKm && v.Valid && (v.Value < l.MinKmPerL || v.Value > l.MaxKmPerL)
	}},
	{models.ReasonBenchmarkDeviation, func(r models.EnrichedRecord, _ models.UnitClass, l Limits) bool {
		v := r.EfficiencyRatio
		return v.Valid && (v.Value < l.MinEfficiencyRatio || v.Value > l.MaxEfficiencyRatio)
	}},
}

// ReasonsFor returns every reason code the record fails, in check order.
func ReasonsFor(r models.EnrichedRecord, l Limits) []models.Reason {
	unit := ClassifyUnit(r.MeterUnit)
	var reasons []models.Reason
	for _, c := range checks {
		if c.fails(r, unit, l) {
			reasons = append(reasons, c.reason)
		}
	}
	return reasons
}

// Evaluate classifies records against limits. It returns only the records
// that fail at least one check, in input order, together with the number of
// records carrying each reason.
func Evaluate(records []models.EnrichedRecord, l Limits) ([]models.FlaggedRecord, map[models.Reason]int) {
	flagged := make([]models.FlaggedRecord, 0)
	counts := make(map[models.Reason]int)
	for _, r := range records {
		reasons := ReasonsFor(r, l)
		if len(reasons) == 0 {
			continue
		}
		for _, reason := range reasons {
			counts[reason]++
		}
		flagged = append(flagged, models.FlaggedRecord{
			EnrichedRecord: r,
			Reasons:        reasons,
			Issues:         joinReasons(reasons),
		})
	}
	return flagged, counts
}

func joinReasons(reasons []models.Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, "; ")
}
