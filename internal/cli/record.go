package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
	"github.com/PratikDhanave/fuel-command-center/internal/output"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

const defaultOperator = "fuelctl"

// number is undefined unless the flag was given.
func number(flags *pflag.FlagSet, name string) (cells.Number, error) {
	if !flags.Changed(name) {
		return cells.None(), nil
	}
	v, err := flags.GetFloat64(name)
	if err != nil {
		return cells.None(), err
	}
	return cells.Some(v), nil
}

func (a *App) dispenseCmd() *cobra.Command {
	var (
		req      models.DispenseRequest
		operator string
	)
	cmd := &cobra.Command{
		Use:   "dispense",
		Short: "Record fuel dispensed from a tanker to an asset",
		Example: `  fuelctl dispense --fleet X-12 --tanker BPS-95 --fuel 40 --meter 10250
  fuelctl dispense --fleet EQ-3 --tanker BPS-95 --fuel 60 --meter 812 --unit Hours --date 2024-05-01`,
		GroupID: "entry",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.FuelOut, err = number(cmd.Flags(), "fuel"); err != nil {
				return err
			}
			if req.CurrentMeter, err = number(cmd.Flags(), "meter"); err != nil {
				return err
			}
			resp, err := a.svc.RecordDispense(cmd.Context(), operator, req)
			if err != nil {
				return err
			}
			return a.print(cmd, resp, func() any { return output.AppendTable(resp, store.Dispensing.Header) })
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.FleetNo, "fleet", "", "fleet number of the receiving asset")
	f.StringVar(&req.SourceTanker, "tanker", "", "tanker the fuel came from")
	f.Float64("fuel", 0, "liters dispensed")
	f.Float64("meter", 0, "odometer or hour-meter reading")
	f.StringVar(&req.MeterUnit, "unit", "", "meter unit (default from the asset's category)")
	f.StringVar(&req.Date, "date", "", "transaction day YYYY-MM-DD (default today)")
	f.StringVar(&operator, "operator", defaultOperator, "operator recorded in logs")
	return cmd
}

func (a *App) receiveCmd() *cobra.Command {
	var (
		req      models.ReceiptRequest
		operator string
	)
	cmd := &cobra.Command{
		Use:     "receive",
		Short:   "Record fuel received by a tanker",
		Example: `  fuelctl receive --tanker BPS-95 --station "Main Depot" --fuel 12000`,
		GroupID: "entry",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.FuelIn, err = number(cmd.Flags(), "fuel"); err != nil {
				return err
			}
			resp, err := a.svc.RecordReceipt(cmd.Context(), operator, req)
			if err != nil {
				return err
			}
			return a.print(cmd, resp, func() any { return output.AppendTable(resp, store.Receipts.Header) })
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.TankerNo, "tanker", "", "receiving tanker")
	f.StringVar(&req.SourceStation, "station", "", "station the fuel came from")
	f.Float64("fuel", 0, "liters received")
	f.StringVar(&req.Date, "date", "", "transaction day YYYY-MM-DD (default today)")
	f.StringVar(&operator, "operator", defaultOperator, "operator recorded in logs")
	return cmd
}
