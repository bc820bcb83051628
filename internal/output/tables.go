package output

import (
	"fmt"
	"strconv"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// Render picks the table view for table output and the raw value otherwise.
// A nil table leaves raw as is.
func Render(format Format, raw any, table func() any) any {
	if table != nil && (format == FormatTable || format == "") {
		return table()
	}
	return raw
}

// SummaryTables renders dashboard KPIs.
func SummaryTables(s analytics.Summary) []Data {
	kpis := Data{
		Title:        "Dashboard",
		Headers:      []string{"KPI", "Value"},
		RightAligned: []int{1},
		Rows: [][]string{
			{"Total fuel (L)", liters(s.TotalFuel)},
			{"Transactions", strconv.Itoa(s.Transactions)},
			{"Active assets", strconv.Itoa(s.ActiveAssets)},
		},
	}
	return []Data{
		kpis,
		totals("Fuel by category", s.ByCategory),
		totals("Top consumers", s.TopConsumers),
		RecordsTable("Recent transactions", s.Recent),
	}
}

func totals(title string, ts []analytics.FuelTotal) Data {
	d := Data{Title: title, Headers: []string{"Name", "Fuel Out (L)"}, RightAligned: []int{1}}
	for _, t := range ts {
		d.Rows = append(d.Rows, []string{t.Name, liters(t.FuelOut)})
	}
	return d
}

// RecordsTable renders enriched records with their metrics.
func RecordsTable(title string, records []models.EnrichedRecord) Data {
	d := Data{
		Title: title,
		Headers: []string{
			"Date", "Asset", "Category", "Tanker", "Fuel (L)", "Meter", "Unit", "Delta", "Km/L", "L/h", "Ratio",
		},
		RightAligned: []int{4, 5, 7, 8, 9, 10},
	}
	for _, r := range records {
		d.Rows = append(d.Rows, recordCells(r))
	}
	return d
}

func recordCells(r models.EnrichedRecord) []string {
	return []string{
		day(r.Day()), r.AssetKey, string(r.Category), r.SourceTanker, num(r.FuelOut), num(r.CurrentMeter),
		r.MeterUnit, num(r.MeterDelta), num(r.ActualKmPerL), num(r.ActualLPerHour), num(r.EfficiencyRatio),
	}
}

// QualityTables renders reason counts and the flagged records.
func QualityTables(q fuel.QualityReport) []Data {
	counts := Data{
		Title:        fmt.Sprintf("Quality (%d of %d records flagged)", len(q.Flagged), q.Checked),
		Headers:      []string{"Reason", "Records"},
		RightAligned: []int{1},
	}
	for _, reason := range models.Reasons {
		counts.Rows = append(counts.Rows, []string{string(reason), strconv.Itoa(q.Counts[reason])})
	}

	flagged := Data{
		Title:        "Flagged records",
		Headers:      []string{"Date", "Asset", "Fuel (L)", "Delta", "Unit", "Issues"},
		RightAligned: []int{2, 3},
	}
	for _, f := range q.Flagged {
		flagged.Rows = append(flagged.Rows, []string{
			day(f.Day()), f.AssetKey, num(f.FuelOut), num(f.MeterDelta), f.MeterUnit, f.Issues,
		})
	}
	return []Data{counts, flagged}
}

// BalancesTable renders tanker inventories.
func BalancesTable(balances []models.TankerBalance) Data {
	d := Data{
		Title:        "Tanker balances",
		Headers:      []string{"Tanker", "In (L)", "Out (L)", "Balance (L)", "Capacity (L)", "Fill"},
		RightAligned: []int{1, 2, 3, 4, 5},
	}
	for _, b := range balances {
		d.Rows = append(d.Rows, []string{
			b.Tanker, liters(b.TotalIn), liters(b.TotalOut), liters(b.Balance), liters(b.Capacity),
			fmt.Sprintf("%.0f%%", b.FillRatio*100),
		})
	}
	return d
}

// AssetsTable renders directory rows.
func AssetsTable(assets []models.Asset) Data {
	d := Data{
		Title:        fmt.Sprintf("Assets (%d)", len(assets)),
		Headers:      []string{"Fleet No", "Asset ID", "Category", "Description", "Plate", "Benchmark Km/L"},
		RightAligned: []int{5},
	}
	for _, a := range assets {
		d.Rows = append(d.Rows, []string{
			a.FleetNo, a.AssetID, string(a.Category), a.Description, a.PlateNumber, num(a.BenchmarkKmL),
		})
	}
	return d
}

// AppendTable renders a row that was just written.
func AppendTable(resp models.AppendResponse, header []string) Data {
	d := Data{Title: "Appended to " + resp.Worksheet, Headers: []string{"Column", "Value"}}
	for i, v := range resp.Row {
		col := strconv.Itoa(i + 1)
		if i < len(header) {
			col = header[i]
		}
		d.Rows = append(d.Rows, []string{col, v})
	}
	return d
}

func liters(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func num(n cells.Number) string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

func day(i cells.Instant) string {
	if !i.Valid {
		return "-"
	}
	return i.Time.Format(cells.DateLayout)
}
