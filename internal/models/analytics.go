package models

import (
	"github.com/PratikDhanave/fuel-command-center/internal/cells"
)

// UnitClass is the meter family a dispense row was recorded in.
type UnitClass string

const (
	UnitClassKm      UnitClass = "km"
	UnitClassHour    UnitClass = "hour"
	UnitClassUnknown UnitClass = ""
)

// EnrichedRecord is a dispense event joined with the asset directory and
// annotated with consumption metrics. Metric fields are undefined until
// metrics are computed, and stay undefined when there is not enough data.
type EnrichedRecord struct {
	DispenseEvent

	AssetKey     string       `json:"asset_key"`
	Category     Category     `json:"category"`
	Description  string       `json:"description"`
	PlateNumber  string       `json:"plate_number"`
	BenchmarkKmL cells.Number `json:"benchmark_kml"`
	// DirectoryMatch is false when neither Fleet No nor Asset ID matched a
	// directory row and the event's own snapshot was used.
	DirectoryMatch bool          `json:"directory_match"`
	EventTime      cells.Instant `json:"event_time"`

	PreviousMeter   cells.Number `json:"previous_meter"`
	MeterDelta      cells.Number `json:"meter_delta"`
	UnitClass       UnitClass    `json:"unit_class"`
	ActualKmPerL    cells.Number `json:"actual_km_per_l"`
	ActualLPerHour  cells.Number `json:"actual_l_per_hour"`
	EfficiencyRatio cells.Number `json:"efficiency_ratio"`
}

// Reason is a data-quality reason code.
type Reason string

const (
	ReasonInvalidMeterDelta  Reason = "invalid meter delta"
	ReasonNonPositiveFuel    Reason = "non-positive fuel volume"
	ReasonUnrecognizedUnit   Reason = "unrecognized unit"
	ReasonExtremeDistance    Reason = "extreme distance delta"
	ReasonExtremeHours       Reason = "extreme hour delta"
	ReasonExcessiveFuel      Reason = "excessive fuel volume"
	ReasonEfficiencyOutlier  Reason = "efficiency outlier"
	ReasonBenchmarkDeviation Reason = "benchmark deviation"
)

// Reasons lists every reason code in evaluation order.
var Reasons = []Reason{
	ReasonInvalidMeterDelta,
	ReasonNonPositiveFuel,
	ReasonUnrecognizedUnit,
	ReasonExtremeDistance,
	ReasonExtremeHours,
	ReasonExcessiveFuel,
	ReasonEfficiencyOutlier,
	ReasonBenchmarkDeviation,
}

// FlaggedRecord is a record that failed at least one plausibility check.
type FlaggedRecord struct {
	EnrichedRecord
	Reasons []Reason `json:"reasons"`
	Issues  string   `json:"issues"`
}

// TankerBalance is the derived inventory of one tanker.
type TankerBalance struct {
	Tanker    string  `json:"tanker"`
	TotalIn   float64 `json:"total_in_l"`
	TotalOut  float64 `json:"total_out_l"`
	Balance   float64 `json:"balance_l"`
	Capacity  float64 `json:"capacity_l"`
	FillRatio float64 `json:"fill_ratio"`
}
