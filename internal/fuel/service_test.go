package fuel_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

var fixedNow = time.Date(2024, 5, 3, 9, 15, 0, 0, time.UTC)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) Appended(_ context.Context, ws store.Worksheet, values []string, operator string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ws.Title+"/"+operator)
}

func seeded(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	st.Seed(store.Assets,
		[]string{"X", "A-1", "vehicles", "Land Cruiser", "P-1", "10"},
		[]string{"L-7", "A-7", "Machine/Equipment", "Loader", "", ""},
		[]string{"BPS-95", "A-95", "Tanker", "Bowser", "", ""},
		[]string{"HSC-116", "A-116", "tankers", "Bowser 2", "", ""},
	)
	st.Seed(store.Dispensing,
		[]string{"2024-05-01T08:00:00Z", "2024-05-01", "X", "A-1", "Vehicle", "Land Cruiser", "BPS-95", "40", "1000", "Km"},
		[]string{"2024-05-02T08:00:00Z", "2024-05-02", "X", "A-1", "Vehicle", "Land Cruiser", "BPS-95", "40", "1400", "Km"},
		[]string{"2024-05-02T09:00:00Z", "2024-05-02", "L-7", "A-7", "Equipment", "Loader", "HSC-116", "1500", "200", "Hours"},
	)
	st.Seed(store.Receipts,
		[]string{"2024-04-30T06:00:00Z", "2024-04-30", "BPS-95", "Depot", "10000"},
		[]string{"2024-05-01T06:00:00Z", "2024-05-01", "HSC-116", "Depot", "3000"},
		[]string{"2024-05-01T06:00:00Z", "2024-05-01", "ZZ-1", "Depot", "999"},
	)
	return st
}

func newService(st store.LogStore, opts ...fuel.Option) *fuel.Service {
	opts = append([]fuel.Option{fuel.WithClock(func() time.Time { return fixedNow })}, opts...)
	return fuel.NewService(st, opts...)
}

func TestTankersComeFromDirectory(t *testing.T) {
	svc := newService(seeded(t))
	tankers, err := svc.Tankers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BPS-95", "HSC-116"}, tankers)

	empty := store.NewMemoryStore()
	require.NoError(t, empty.EnsureSchema(context.Background(), store.Worksheets()...))
	tankers, err = newService(empty, fuel.WithTankers([]string{"T1"})).Tankers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"T1"}, tankers)
}

func TestSearch(t *testing.T) {
	svc := newService(seeded(t))
	got, err := svc.Search(context.Background(), "cruiser")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X | Land Cruiser (P-1)", got[0].SearchLabel())
}

func TestRecordDispenseCopiesDirectoryFields(t *testing.T) {
	st := seeded(t)
	rec := &recorder{}
	svc := newService(st, fuel.WithNotifier(rec))

	resp, err := svc.RecordDispense(context.Background(), "alice", models.DispenseRequest{
		FleetNo:      " L-7 ",
		SourceTanker: "HSC-116",
		FuelOut:      cells.Some(120),
		CurrentMeter: cells.Some(230),
	})
	require.NoError(t, err)
	assert.Equal(t, store.Dispensing.Title, resp.Worksheet)
	assert.Equal(t, []string{
		"2024-05-03T09:15:00Z", "2024-05-03", "L-7", "A-7", "Equipment", "Loader", "HSC-116", "120", "230", "Hours",
	}, resp.Row)
	assert.Equal(t, []string{"Tanker Dispensing/alice"}, rec.calls)

	tbl, err := st.ReadAll(context.Background(), store.Dispensing)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 4)
}

func TestRecordDispenseDefaultsKmForVehicles(t *testing.T) {
	svc := newService(seeded(t))
	resp, err := svc.RecordDispense(context.Background(), "alice", models.DispenseRequest{
		FleetNo:      "X",
		SourceTanker: "BPS-95",
		Date:         "2024-05-02",
		FuelOut:      cells.Some(30),
		CurrentMeter: cells.Some(1700),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", resp.Row[1])
	assert.Equal(t, models.UnitKm, resp.Row[9])
}

func TestRecordDispenseValidation(t *testing.T) {
	svc := newService(seeded(t))
	_, err := svc.RecordDispense(context.Background(), "alice", models.DispenseRequest{
		Date:         "yesterday",
		FuelOut:      cells.Some(0),
		CurrentMeter: cells.Some(-5),
		MeterUnit:    "miles",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fuel.ErrInvalid)

	var ve *fuel.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Problems, 6)
}

func TestRecordDispenseUnknownAsset(t *testing.T) {
	svc := newService(seeded(t))
	_, err := svc.RecordDispense(context.Background(), "alice", models.DispenseRequest{
		FleetNo:      "NOPE",
		SourceTanker: "BPS-95",
		FuelOut:      cells.Some(10),
		CurrentMeter: cells.Some(10),
	})
	assert.ErrorIs(t, err, fuel.ErrUnknownAsset)
}

func TestRecordDispenseUnknownTanker(t *testing.T) {
	svc := newService(seeded(t))
	_, err := svc.RecordDispense(context.Background(), "alice", models.DispenseRequest{
		FleetNo:      "X",
		SourceTanker: "HSC-101",
		FuelOut:      cells.Some(10),
		CurrentMeter: cells.Some(10),
	})
	assert.ErrorIs(t, err, fuel.ErrInvalid)
}

func TestRecordDispenseEmptyDirectory(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.EnsureSchema(context.Background(), store.Worksheets()...))
	_, err := newService(st).RecordDispense(context.Background(), "alice", models.DispenseRequest{
		FleetNo:      "X",
		SourceTanker: "BPS-95",
		FuelOut:      cells.Some(10),
		CurrentMeter: cells.Some(10),
	})
	assert.ErrorIs(t, err, fuel.ErrEmptyDirectory)
}

func TestRecordReceipt(t *testing.T) {
	st := seeded(t)
	svc := newService(st)

	resp, err := svc.RecordReceipt(context.Background(), "bob", models.ReceiptRequest{
		TankerNo:      "BPS-95",
		SourceStation: " Depot ",
		FuelIn:        cells.Some(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-03T09:15:00Z", "2024-05-03", "BPS-95", "Depot", "5000"}, resp.Row)

	_, err = svc.RecordReceipt(context.Background(), "bob", models.ReceiptRequest{TankerNo: "ZZ-1", FuelIn: cells.Some(1)})
	assert.ErrorIs(t, err, fuel.ErrInvalid)

	_, err = svc.RecordReceipt(context.Background(), "bob", models.ReceiptRequest{TankerNo: "BPS-95"})
	assert.ErrorIs(t, err, fuel.ErrInvalid)
}

func TestAppendFailureIsWriteError(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(store.Assets, []string{"X", "A-1", "Vehicle", "Cruiser", "P-1", ""})
	rec := &recorder{}
	svc := newService(st, fuel.WithTankers([]string{"T1"}), fuel.WithNotifier(rec))

	_, err := svc.RecordDispense(context.Background(), "alice", models.DispenseRequest{
		FleetNo:      "X",
		SourceTanker: "T1",
		FuelOut:      cells.Some(10),
		CurrentMeter: cells.Some(10),
	})
	var we *store.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, store.Dispensing.Title, we.Worksheet)
	assert.Empty(t, rec.calls)
}

func TestDashboard(t *testing.T) {
	svc := newService(seeded(t))
	sum, err := svc.Dashboard(context.Background(), analytics.Window{})
	require.NoError(t, err)
	assert.Equal(t, 1580.0, sum.TotalFuel)
	assert.Equal(t, 3, sum.Transactions)
	assert.Equal(t, 2, sum.ActiveAssets)
	require.NotEmpty(t, sum.TopConsumers)
	assert.Equal(t, "L-7", sum.TopConsumers[0].Name)
	assert.Equal(t, "L-7", sum.Recent[0].AssetKey)

	day2 := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	sum, err = svc.Dashboard(context.Background(), analytics.Window{From: day2, To: day2})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Transactions)
}

func TestConsumptionKeepsPreviousMeterAcrossWindow(t *testing.T) {
	svc := newService(seeded(t))
	day2 := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	got, err := svc.Consumption(context.Background(), analytics.Window{From: day2}, "X")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cells.Some(1000), got[0].PreviousMeter)
	assert.Equal(t, cells.Some(400), got[0].MeterDelta)
	assert.Equal(t, cells.Some(10), got[0].ActualKmPerL)
	assert.Equal(t, cells.Some(1), got[0].EfficiencyRatio)
}

func TestQualityFlagsExcessiveFuel(t *testing.T) {
	svc := newService(seeded(t))
	rep, err := svc.Quality(context.Background(), analytics.Window{}, svc.Limits())
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Checked)

	var loader *models.FlaggedRecord
	for i := range rep.Flagged {
		if rep.Flagged[i].AssetKey == "L-7" {
			loader = &rep.Flagged[i]
		}
	}
	require.NotNil(t, loader)
	assert.Contains(t, loader.Reasons, models.ReasonExcessiveFuel)
	assert.Equal(t, 1, rep.Counts[models.ReasonExcessiveFuel])
}

func TestBalancesInRosterOrder(t *testing.T) {
	svc := newService(seeded(t))
	got, err := svc.Balances(context.Background(), analytics.Window{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "BPS-95", got[0].Tanker)
	assert.Equal(t, 10000.0, got[0].TotalIn)
	assert.Equal(t, 80.0, got[0].TotalOut)
	assert.Equal(t, 9920.0, got[0].Balance)
	assert.Equal(t, analytics.DefaultTankerCapacity, got[0].Capacity)

	assert.Equal(t, "HSC-116", got[1].Tanker)
	assert.Equal(t, -1500.0+3000.0, got[1].Balance)
}

func TestReport(t *testing.T) {
	svc := newService(seeded(t))
	rep, err := svc.Report(context.Background(), analytics.Window{})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, rep.GeneratedAt)
	assert.Len(t, rep.Records, 3)
	assert.Equal(t, 3, rep.Summary.Transactions)
	assert.Len(t, rep.Balances, 2)
	assert.Equal(t, 3, rep.Quality.Checked)
}

func TestReadErrorsPropagate(t *testing.T) {
	svc := newService(store.NewMemoryStore())
	_, err := svc.Dashboard(context.Background(), analytics.Window{})
	assert.ErrorIs(t, err, store.ErrRead)
	assert.ErrorIs(t, err, store.ErrWorksheetNotFound)
}
