// Package export renders a fuel.Report for consumers outside the service:
// an Excel workbook for people and InfluxDB points for dashboards.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// Sheet names of the exported workbook.
const (
	SheetDashboard   = "Dashboard"
	SheetConsumption = "Consumption"
	SheetQuality     = "Quality"
	SheetBalances    = "Balances"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// headerRow is where the first table of each sheet starts, below the title block.
const headerRow = 4

type styles struct {
	title, header, data, section int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border("000000"),
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{Border: border("CCCCCC")}); err != nil {
		return s, err
	}
	s.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
	})
	return s, err
}

func border(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

// Workbook builds the report workbook. The caller closes the file.
func Workbook(rep fuel.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for _, build := range []func(*excelize.File, styles, fuel.Report) error{
		dashboardSheet,
		consumptionSheet,
		qualitySheet,
		balancesSheet,
	} {
		if err := build(f, st, rep); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if idx, err := f.GetSheetIndex(SheetDashboard); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// WriteWorkbook writes the report workbook to w.
func WriteWorkbook(w io.Writer, rep fuel.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Filename is the download name for rep.
func Filename(rep fuel.Report) string {
	return fmt.Sprintf("fuel-report_%s.xlsx", rep.GeneratedAt.Format("20060102_150405"))
}

// newSheet adds a sheet with a title and a generation line.
func newSheet(f *excelize.File, st styles, name string, rep fuel.Report) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := f.SetCellValue(name, "A1", "Fuel "+name); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", "A1", st.title); err != nil {
		return err
	}
	if err := f.SetRowHeight(name, 1, 30); err != nil {
		return err
	}
	return f.SetCellValue(name, "A2", fmt.Sprintf("Generated: %s  Window: %s",
		rep.GeneratedAt.Format("2006-01-02 15:04:05"), windowLabel(rep.Window)))
}

// table writes a header at row and the data rows below it. It returns the
// first free row after the table.
func table(f *excelize.File, st styles, sheet string, row int, header []string, rows [][]interface{}) (int, error) {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return 0, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, st.header); err != nil {
			return 0, err
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, colName, colName, 18); err != nil {
			return 0, err
		}
	}
	for i, values := range rows {
		r := row + 1 + i
		first, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(sheet, first, &values); err != nil {
			return 0, err
		}
		last, _ := excelize.CoordinatesToCellName(len(header), r)
		if err := f.SetCellStyle(sheet, first, last, st.data); err != nil {
			return 0, err
		}
	}
	return row + len(rows) + 1, nil
}

func section(f *excelize.File, st styles, sheet string, row int, label string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, label); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, st.section)
}

func dashboardSheet(f *excelize.File, st styles, rep fuel.Report) error {
	if err := newSheet(f, st, SheetDashboard, rep); err != nil {
		return err
	}
	s := rep.Summary
	next, err := table(f, st, SheetDashboard, headerRow, []string{"KPI", "Value"}, [][]interface{}{
		{"Total fuel (L)", s.TotalFuel},
		{"Transactions", s.Transactions},
		{"Active assets", s.ActiveAssets},
	})
	if err != nil {
		return err
	}

	for _, part := range []struct {
		label  string
		totals []analytics.FuelTotal
	}{
		{"Fuel by category", s.ByCategory},
		{"Top consumers", s.TopConsumers},
	} {
		if err := section(f, st, SheetDashboard, next+1, part.label); err != nil {
			return err
		}
		rows := make([][]interface{}, 0, len(part.totals))
		for _, t := range part.totals {
			rows = append(rows, []interface{}{t.Name, t.FuelOut})
		}
		if next, err = table(f, st, SheetDashboard, next+2, []string{"Name", "Fuel Out (L)"}, rows); err != nil {
			return err
		}
	}
	return nil
}

var recordHeader = []string{
	"Date", "Fleet No", "Asset ID", "Category", "Description", "Source Tanker", "Fuel Out (L)",
	"Current Meter", "Meter Unit", "Previous Meter", "Meter Delta", "Km/L", "L/Hour",
	"Benchmark Km/L", "Efficiency Ratio",
}

func recordRow(r models.EnrichedRecord) []interface{} {
	return []interface{}{
		date(r.Day()), r.FleetNo, r.AssetID, string(r.Category), r.Description, r.SourceTanker,
		num(r.FuelOut), num(r.CurrentMeter), r.MeterUnit, num(r.PreviousMeter), num(r.MeterDelta),
		num(r.ActualKmPerL), num(r.ActualLPerHour), num(r.BenchmarkKmL), num(r.EfficiencyRatio),
	}
}

func consumptionSheet(f *excelize.File, st styles, rep fuel.Report) error {
	if err := newSheet(f, st, SheetConsumption, rep); err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(rep.Records))
	for _, r := range rep.Records {
		rows = append(rows, recordRow(r))
	}
	_, err := table(f, st, SheetConsumption, headerRow, recordHeader, rows)
	return err
}

func qualitySheet(f *excelize.File, st styles, rep fuel.Report) error {
	if err := newSheet(f, st, SheetQuality, rep); err != nil {
		return err
	}
	counts := make([][]interface{}, 0, len(models.Reasons))
	for _, reason := range models.Reasons {
		counts = append(counts, []interface{}{string(reason), rep.Quality.Counts[reason]})
	}
	next, err := table(f, st, SheetQuality, headerRow, []string{"Reason", "Records"}, counts)
	if err != nil {
		return err
	}

	if err := section(f, st, SheetQuality, next+1, fmt.Sprintf("Flagged records (%d of %d)", len(rep.Quality.Flagged), rep.Quality.Checked)); err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(rep.Quality.Flagged))
	for _, fr := range rep.Quality.Flagged {
		rows = append(rows, append(recordRow(fr.EnrichedRecord), fr.Issues))
	}
	_, err = table(f, st, SheetQuality, next+2, append(append([]string(nil), recordHeader...), "Issues"), rows)
	return err
}

func balancesSheet(f *excelize.File, st styles, rep fuel.Report) error {
	if err := newSheet(f, st, SheetBalances, rep); err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(rep.Balances))
	for _, b := range rep.Balances {
		rows = append(rows, []interface{}{b.Tanker, b.TotalIn, b.TotalOut, b.Balance, b.Capacity, b.FillRatio})
	}
	_, err := table(f, st, SheetBalances, headerRow,
		[]string{"Tanker", "Total In (L)", "Total Out (L)", "Balance (L)", "Capacity (L)", "Fill Ratio"}, rows)
	return err
}

// num leaves undefined values as empty cells.
func num(n cells.Number) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}

func date(i cells.Instant) interface{} {
	if !i.Valid {
		return nil
	}
	return i.Time.Format(cells.DateLayout)
}

func windowLabel(w analytics.Window) string {
	if w.IsZero() {
		return "all"
	}
	parts := []string{"open", "open"}
	if !w.From.IsZero() {
		parts[0] = w.From.Format(cells.DateLayout)
	}
	if !w.To.IsZero() {
		parts[1] = w.To.Format(cells.DateLayout)
	}
	return strings.Join(parts, " to ")
}
