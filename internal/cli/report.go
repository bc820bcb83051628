package cli

import (
	"github.com/spf13/cobra"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/output"
)

func (a *App) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Short:   "Show fuel KPIs for the window",
		GroupID: "reports",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := a.svc.Dashboard(cmd.Context(), a.window)
			if err != nil {
				return err
			}
			return a.print(cmd, summary, func() any { return output.SummaryTables(summary) })
		},
	}
}

func (a *App) consumptionCmd() *cobra.Command {
	var asset string
	cmd := &cobra.Command{
		Use:     "consumption",
		Short:   "List dispense records with consumption metrics",
		GroupID: "reports",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.svc.Consumption(cmd.Context(), a.window, asset)
			if err != nil {
				return err
			}
			raw := map[string]any{"count": len(records), "records": records}
			return a.print(cmd, raw, func() any { return output.RecordsTable("Consumption", records) })
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "only records for this asset key (Fleet No, else Asset ID)")
	return cmd
}

// limitFlags maps quality flags onto the limits they override.
var limitFlags = []struct {
	name  string
	usage string
	field func(*analytics.Limits) *float64
}{
	{"max-km-delta", "largest plausible distance between fills (km)", func(l *analytics.Limits) *float64 { return &l.MaxKmDelta }},
	{"max-hour-delta", "largest plausible hours between fills", func(l *analytics.Limits) *float64 { return &l.MaxHourDelta }},
	{"max-fuel-out", "largest plausible single dispense (L)", func(l *analytics.Limits) *float64 { return &l.MaxFuelOut }},
	{"min-km-per-l", "lowest plausible km/L", func(l *analytics.Limits) *float64 { return &l.MinKmPerL }},
	{"max-km-per-l", "highest plausible km/L", func(l *analytics.Limits) *float64 { return &l.MaxKmPerL }},
	{"min-efficiency-ratio", "lowest plausible actual/benchmark ratio", func(l *analytics.Limits) *float64 { return &l.MinEfficiencyRatio }},
	{"max-efficiency-ratio", "highest plausible actual/benchmark ratio", func(l *analytics.Limits) *float64 { return &l.MaxEfficiencyRatio }},
}

func (a *App) qualityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Flag implausible dispense records",
		Long: `quality checks every dispense record in the window against the configured
plausibility limits. Any limit can be overridden for this run with a flag.`,
		GroupID: "reports",
		Args:    cobra.NoArgs,
	}
	for _, f := range limitFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		limits := a.svc.Limits()
		for _, f := range limitFlags {
			if !cmd.Flags().Changed(f.name) {
				continue
			}
			v, err := cmd.Flags().GetFloat64(f.name)
			if err != nil {
				return err
			}
			*f.field(&limits) = v
		}
		if err := limits.Validate(); err != nil {
			return err
		}

		report, err := a.svc.Quality(cmd.Context(), a.window, limits)
		if err != nil {
			return err
		}
		return a.print(cmd, report, func() any { return output.QualityTables(report) })
	}
	return cmd
}

func (a *App) balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "balances",
		Short:   "Show derived tanker inventories",
		GroupID: "reports",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balances, err := a.svc.Balances(cmd.Context(), a.window)
			if err != nil {
				return err
			}
			raw := map[string]any{"balances": balances}
			return a.print(cmd, raw, func() any { return output.BalancesTable(balances) })
		},
	}
}

func (a *App) assetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "assets [query]",
		Short:   "Search the asset directory",
		GroupID: "reports",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q string
			if len(args) == 1 {
				q = args[0]
			}
			assets, err := a.svc.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			raw := map[string]any{"count": len(assets), "assets": assets}
			return a.print(cmd, raw, func() any { return output.AssetsTable(assets) })
		},
	}
}

func (a *App) tankersCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tankers",
		Short:   "List the tanker roster",
		GroupID: "reports",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tankers, err := a.svc.Tankers(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, map[string]any{"tankers": tankers}, func() any {
				d := output.Data{Title: "Tankers", Headers: []string{"Tanker"}}
				for _, t := range tankers {
					d.Rows = append(d.Rows, []string{t})
				}
				return d
			})
		},
	}
}
