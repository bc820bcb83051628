package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/fuel-command-center/internal/export"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

func (a *App) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export reports to a workbook or InfluxDB",
		GroupID: "reports",
	}
	cmd.AddCommand(a.exportXLSXCmd(), a.exportInfluxCmd())
	return cmd
}

func (a *App) exportXLSXCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the report workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.svc.Report(cmd.Context(), a.window)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = export.Filename(rep)
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := export.WriteWorkbook(f, rep); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			return a.print(cmd, map[string]any{"file": path, "records": len(rep.Records)}, nil)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default fuel-report_<timestamp>.xlsx)")
	return cmd
}

func (a *App) exportInfluxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "influx",
		Short: "Write consumption and balance points to InfluxDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ic := a.cfg.Influx
			if !ic.Enabled() {
				return errors.New("INFLUX_URL is not set")
			}
			rep, err := a.svc.Report(cmd.Context(), a.window)
			if err != nil {
				return err
			}

			sink, err := export.DialInflux(cmd.Context(), ic.URL, ic.Token, ic.Org, ic.Bucket)
			if err != nil {
				return err
			}
			defer sink.Close()

			n, err := sink.Export(cmd.Context(), rep)
			if err != nil {
				return err
			}
			return a.print(cmd, map[string]any{"bucket": ic.Bucket, "points": n}, nil)
		},
	}
}

func (a *App) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   "Create missing worksheets and headers in the log store",
		GroupID: "admin",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sheets := store.Worksheets()
			if err := a.store.EnsureSchema(cmd.Context(), sheets...); err != nil {
				return err
			}
			titles := make([]string, 0, len(sheets))
			for _, ws := range sheets {
				titles = append(titles, ws.Title)
			}
			return a.print(cmd, map[string]any{"backend": a.cfg.Store.Backend, "worksheets": titles}, nil)
		},
	}
}
