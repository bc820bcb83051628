package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/codec"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

func TestDispensesByHeaderName(t *testing.T) {
	tbl := store.Table{
		Header: []string{
			store.ColFuelOut, store.ColFleetNo, store.ColTimestamp, store.ColDate, store.ColAssetID,
			store.ColCategory, store.ColDescription, store.ColSourceTanker, store.ColCurrentMeter, store.ColMeterUnit,
		},
		Rows: [][]string{
			{"1,040.5", " X ", "2024-05-01 08:30:00", "2024-05-01", "A-1", "vehicles", "Cruiser", "T1", "12000", "Km"},
			{"abc", "Y", "", "45413", "", "", "", "T2", "", "hrs"},
		},
	}

	got := codec.Dispenses(tbl)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "X", first.FleetNo)
	assert.Equal(t, cells.Some(1040.5), first.FuelOut)
	assert.Equal(t, cells.Some(12000), first.CurrentMeter)
	assert.True(t, first.Timestamp.Valid)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), first.Timestamp.Time)
	assert.Equal(t, "vehicles", first.Category)

	second := got[1]
	assert.False(t, second.FuelOut.Valid)
	assert.False(t, second.CurrentMeter.Valid)
	assert.False(t, second.Timestamp.Valid)
	require.True(t, second.Date.Valid)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), second.Date.Time)
}

func TestAssetsWithoutBenchmarkColumn(t *testing.T) {
	tbl := store.Table{
		Header: []string{store.ColFleetNo, store.ColAssetID, store.ColCategory, store.ColDescription, store.ColPlateNumber},
		Rows:   [][]string{{"X", "A-1", " Machine/Equipment ", "Loader", "P-9"}},
	}
	got := codec.Assets(tbl)
	require.Len(t, got, 1)
	assert.Equal(t, models.Category("Machine/Equipment"), got[0].Category)
	assert.False(t, got[0].BenchmarkKmL.Valid)
}

func TestReceipts(t *testing.T) {
	tbl := store.Table{
		Header: store.Receipts.Header,
		Rows:   [][]string{{"2024-05-01T06:00:00Z", "2024-05-01", "T1", "Depot", "10000"}},
	}
	got := codec.Receipts(tbl)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].TankerNo)
	assert.Equal(t, "Depot", got[0].SourceStation)
	assert.Equal(t, cells.Some(10000), got[0].FuelIn)
}

func TestDispenseRowRoundTrip(t *testing.T) {
	ev := models.DispenseEvent{
		Timestamp:    cells.At(time.Date(2024, 5, 1, 8, 30, 15, 500, time.FixedZone("EAT", 3*3600))),
		Date:         cells.At(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		FleetNo:      "X",
		AssetID:      "A-1",
		Category:     "Vehicle",
		Description:  "Cruiser",
		SourceTanker: "T1",
		FuelOut:      cells.Some(40),
		CurrentMeter: cells.Some(1000.5),
		MeterUnit:    models.UnitKm,
	}

	row := codec.DispenseRow(ev)
	require.Len(t, row, len(store.Dispensing.Header))
	assert.Equal(t, []string{
		"2024-05-01T05:30:15Z", "2024-05-01", "X", "A-1", "Vehicle", "Cruiser", "T1", "40", "1000.5", "Km",
	}, row)

	back := codec.Dispenses(store.Table{Header: store.Dispensing.Header, Rows: [][]string{row}})
	require.Len(t, back, 1)
	assert.Equal(t, ev.FuelOut, back[0].FuelOut)
	assert.Equal(t, ev.CurrentMeter, back[0].CurrentMeter)
	assert.Equal(t, time.Date(2024, 5, 1, 5, 30, 15, 0, time.UTC), back[0].Timestamp.Time)
}

func TestReceiptRowLeavesUndefinedBlank(t *testing.T) {
	row := codec.ReceiptRow(models.ReceiptEvent{TankerNo: "T1"})
	assert.Equal(t, []string{"", "", "T1", "", ""}, row)
}
