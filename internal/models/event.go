package models

import (
	"github.com/PratikDhanave/fuel-command-center/internal/cells"
)

// DispenseEvent is one fuel-out transaction from a tanker to an asset.
// Category and Description are snapshots taken when the row was entered and
// may be stale relative to the asset directory.
type DispenseEvent struct {
	Timestamp    cells.Instant `json:"timestamp"`
	Date         cells.Instant `json:"date"`
	FleetNo      string        `json:"fleet_no"`
	AssetID      string        `json:"asset_id"`
	Category     string        `json:"category"`
	Description  string        `json:"description"`
	SourceTanker string        `json:"source_tanker"`
	FuelOut      cells.Number  `json:"fuel_out_l"`
	CurrentMeter cells.Number  `json:"current_meter"`
	MeterUnit    string        `json:"meter_unit"`
}

// Day is the calendar day the event belongs to: Date, else the timestamp's day.
func (e DispenseEvent) Day() cells.Instant {
	return eventDay(e.Date, e.Timestamp)
}

// ReceiptEvent is one fuel-in transaction from an external station to a tanker.
type ReceiptEvent struct {
	Timestamp     cells.Instant `json:"timestamp"`
	Date          cells.Instant `json:"date"`
	TankerNo      string        `json:"tanker_no"`
	SourceStation string        `json:"source_station"`
	FuelIn        cells.Number  `json:"fuel_in_l"`
}

// Day is the calendar day the event belongs to: Date, else the timestamp's day.
func (e ReceiptEvent) Day() cells.Instant {
	return eventDay(e.Date, e.Timestamp)
}

func eventDay(date, ts cells.Instant) cells.Instant {
	if date.Valid {
		return cells.At(cells.Day(date.Time))
	}
	if ts.Valid {
		return cells.At(cells.Day(ts.Time))
	}
	return cells.Instant{}
}
