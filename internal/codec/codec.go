// Package codec maps worksheet rows to fleet models and back.
//
// Decoding looks columns up by header name, so extra or reordered columns in
// a worksheet are fine. Encoding always follows the worksheet's declared
// column order.
package codec

import (
	"strings"
	"time"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// TimestampLayout is how the Timestamp column is written: UTC, second precision.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Assets decodes the asset directory. Category text is kept as entered;
// the directory normalizes it.
func Assets(t store.Table) []models.Asset {
	out := make([]models.Asset, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, models.Asset{
			FleetNo:      text(t, row, store.ColFleetNo),
			AssetID:      text(t, row, store.ColAssetID),
			Category:     models.Category(text(t, row, store.ColCategory)),
			Description:  text(t, row, store.ColDescription),
			PlateNumber:  text(t, row, store.ColPlateNumber),
			BenchmarkKmL: cells.ParseNumber(t.Value(row, store.ColBenchmarkKmL)),
		})
	}
	return out
}

// Dispenses decodes the dispensing log in row order.
func Dispenses(t store.Table) []models.DispenseEvent {
	out := make([]models.DispenseEvent, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, models.DispenseEvent{
			Timestamp:    cells.ParseInstant(t.Value(row, store.ColTimestamp)),
			Date:         cells.ParseDay(t.Value(row, store.ColDate)),
			FleetNo:      text(t, row, store.ColFleetNo),
			AssetID:      text(t, row, store.ColAssetID),
			Category:     text(t, row, store.ColCategory),
			Description:  text(t, row, store.ColDescription),
			SourceTanker: text(t, row, store.ColSourceTanker),
			FuelOut:      cells.ParseNumber(t.Value(row, store.ColFuelOut)),
			CurrentMeter: cells.ParseNumber(t.Value(row, store.ColCurrentMeter)),
			MeterUnit:    text(t, row, store.ColMeterUnit),
		})
	}
	return out
}

// Receipts decodes the receipts log in row order.
func Receipts(t store.Table) []models.ReceiptEvent {
	out := make([]models.ReceiptEvent, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, models.ReceiptEvent{
			Timestamp:     cells.ParseInstant(t.Value(row, store.ColTimestamp)),
			Date:          cells.ParseDay(t.Value(row, store.ColDate)),
			TankerNo:      text(t, row, store.ColTankerNo),
			SourceStation: text(t, row, store.ColSourceStation),
			FuelIn:        cells.ParseNumber(t.Value(row, store.ColFuelIn)),
		})
	}
	return out
}

// DispenseRow encodes ev in store.Dispensing column order.
func DispenseRow(ev models.DispenseEvent) []string {
	return row(store.Dispensing, map[string]string{
		store.ColTimestamp:    timestamp(ev.Timestamp),
		store.ColDate:         date(ev.Date),
		store.ColFleetNo:      ev.FleetNo,
		store.ColAssetID:      ev.AssetID,
		store.ColCategory:     ev.Category,
		store.ColDescription:  ev.Description,
		store.ColSourceTanker: ev.SourceTanker,
		store.ColFuelOut:      ev.FuelOut.String(),
		store.ColCurrentMeter: ev.CurrentMeter.String(),
		store.ColMeterUnit:    ev.MeterUnit,
	})
}

// ReceiptRow encodes ev in store.Receipts column order.
func ReceiptRow(ev models.ReceiptEvent) []string {
	return row(store.Receipts, map[string]string{
		store.ColTimestamp:     timestamp(ev.Timestamp),
		store.ColDate:          date(ev.Date),
		store.ColTankerNo:      ev.TankerNo,
		store.ColSourceStation: ev.SourceStation,
		store.ColFuelIn:        ev.FuelIn.String(),
	})
}

func row(ws store.Worksheet, values map[string]string) []string {
	out := make([]string, len(ws.Header))
	for i, col := range ws.Header {
		out[i] = values[col]
	}
	return out
}

func text(t store.Table, row []string, col string) string {
	return strings.TrimSpace(t.Value(row, col))
}

func timestamp(i cells.Instant) string {
	if !i.Valid {
		return ""
	}
	return i.Time.UTC().Truncate(time.Second).Format(TimestampLayout)
}

func date(i cells.Instant) string {
	if !i.Valid {
		return ""
	}
	return i.Time.UTC().Format(cells.DateLayout)
}
