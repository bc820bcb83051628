package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/PratikDhanave/fuel-command-center/internal/config"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/httpserver"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

const operatorKey = "fuel-key-123"

func newServer(t *testing.T, st store.LogStore) http.Handler {
	t.Helper()
	svc := fuel.NewService(st, fuel.WithClock(func() time.Time {
		return time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	}))
	return httpserver.NewRouter(config.Config{APIKeys: map[string]string{operatorKey: "operator1"}}, svc)
}

func seededStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.Seed(store.Assets,
		[]string{"X", "A-1", "Vehicle", "Land Cruiser", "P-1", "10"},
		[]string{"BPS-95", "A-95", "Tanker", "Bowser", "", ""},
	)
	st.Seed(store.Dispensing,
		[]string{"2024-05-01T08:00:00Z", "2024-05-01", "X", "A-1", "Vehicle", "Land Cruiser", "BPS-95", "40", "1000", "Km"},
		[]string{"2024-05-02T08:00:00Z", "2024-05-02", "X", "A-1", "Vehicle", "Land Cruiser", "BPS-95", "40", "1400", "Km"},
	)
	st.Seed(store.Receipts,
		[]string{"2024-04-30T06:00:00Z", "2024-04-30", "BPS-95", "Depot", "10000"},
	)
	return st
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", operatorKey)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndReady(t *testing.T) {
	h := newServer(t, seededStore())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newServer(t, seededStore())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	h := newServer(t, seededStore())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssetsAndTankers(t *testing.T) {
	h := newServer(t, seededStore())

	w := do(t, h, http.MethodGet, "/assets?q=cruiser", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["count"])
	assets := body["assets"].([]any)
	assert.Equal(t, "X | Land Cruiser (P-1)", assets[0].(map[string]any)["label"])

	w = do(t, h, http.MethodGet, "/tankers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tankers":["BPS-95"]}`, w.Body.String())
}

func TestPostDispense(t *testing.T) {
	st := seededStore()
	h := newServer(t, st)

	w := do(t, h, http.MethodPost, "/dispenses", map[string]any{
		"fleet_no":      "X",
		"source_tanker": "BPS-95",
		"fuel_out_l":    "35",
		"current_meter": 1750,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, store.Dispensing.Title, body["worksheet"])

	tbl, err := st.ReadAll(context.Background(), store.Dispensing)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestPostDispenseErrors(t *testing.T) {
	h := newServer(t, seededStore())

	w := do(t, h, http.MethodPost, "/dispenses", map[string]any{"fleet_no": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w)["problems"])

	w = do(t, h, http.MethodPost, "/dispenses", map[string]any{
		"fleet_no": "NOPE", "source_tanker": "BPS-95", "fuel_out_l": 10, "current_meter": 10,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/dispenses", bytes.NewBufferString("{"))
	req.Header.Set("X-API-Key", operatorKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostReceiptWriteFailureEchoesPayload(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(store.Assets, []string{"BPS-95", "A-95", "Tanker", "Bowser", "", ""})
	h := newServer(t, st)

	w := do(t, h, http.MethodPost, "/receipts", map[string]any{
		"tanker_no": "BPS-95", "source_station": "Depot", "fuel_in_l": 500,
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, store.Receipts.Title, body["worksheet"])
	submitted := body["submitted"].(map[string]any)
	assert.Equal(t, "BPS-95", submitted["tanker_no"])
	assert.Equal(t, float64(500), submitted["fuel_in_l"])
}

func TestSchemaMismatchIs422(t *testing.T) {
	st := seededStore()
	st.Seed(store.Worksheet{Title: store.Dispensing.Title, Header: []string{"Fleet No", "Litres"}}, []string{"X", "40"})
	h := newServer(t, st)

	w := do(t, h, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, store.Dispensing.Title, body["worksheet"])
	assert.Contains(t, body["missing"], "Current Meter")
}

func TestDashboardAndWindow(t *testing.T) {
	h := newServer(t, seededStore())

	w := do(t, h, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(80), body["total_fuel_l"])
	assert.Equal(t, float64(2), body["transactions"])

	w = do(t, h, http.MethodGet, "/dashboard?from=2024-05-02&to=2024-05-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["transactions"])

	w = do(t, h, http.MethodGet, "/dashboard?from=2024-05-03&to=2024-05-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/dashboard?from=May", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsumption(t *testing.T) {
	h := newServer(t, seededStore())
	w := do(t, h, http.MethodGet, "/consumption?from=2024-05-02&asset=X", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, float64(1), body["count"])
	rec := body["records"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(400), rec["meter_delta"])
	assert.Equal(t, float64(10), rec["actual_km_per_l"])
	assert.Equal(t, float64(1), rec["efficiency_ratio"])
}

func TestQualityLimitOverrides(t *testing.T) {
	h := newServer(t, seededStore())

	w := do(t, h, http.MethodGet, "/quality", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["checked"])
	assert.Len(t, body["flagged"], 1, "only the first event lacks a meter delta")

	w = do(t, h, http.MethodGet, "/quality?max_fuel_out=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["flagged"], 2)

	w = do(t, h, http.MethodGet, "/quality?min_km_per_l=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/quality?min_efficiency_ratio=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQualityRejectsNonFiniteLimits(t *testing.T) {
	h := newServer(t, seededStore())

	for _, q := range []string{
		"max_km_delta=NaN&min_km_per_l=NaN&max_km_per_l=NaN",
		"max_fuel_out=Inf",
		"max_efficiency_ratio=-Inf",
	} {
		w := do(t, h, http.MethodGet, "/quality?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, decode(t, w)["error"], "must be a finite number", q)
	}
}

func TestBalances(t *testing.T) {
	h := newServer(t, seededStore())
	w := do(t, h, http.MethodGet, "/balances", nil)
	require.Equal(t, http.StatusOK, w.Code)
	balances := decode(t, w)["balances"].([]any)
	require.Len(t, balances, 1)
	b := balances[0].(map[string]any)
	assert.Equal(t, "BPS-95", b["tanker"])
	assert.Equal(t, float64(9920), b["balance_l"])
}

func TestExportWorkbook(t *testing.T) {
	h := newServer(t, seededStore())
	w := do(t, h, http.MethodGet, "/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "fuel-report_20240503_090000.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Balances")
}
