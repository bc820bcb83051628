// Package cli implements fuelctl, the operator command line for the fuel logs.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/config"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/notify"
	"github.com/PratikDhanave/fuel-command-center/internal/output"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// App holds what every command needs once the root command has set up.
type App struct {
	cfg    config.Config
	store  store.LogStore
	svc    *fuel.Service
	kafka  *notify.Kafka
	format output.Format
	window analytics.Window

	// injected by options; nil means build from config
	injectedCfg   *config.Config
	injectedStore store.LogStore
	openStore     func(context.Context, store.Options) (store.LogStore, error)
	clock         func() time.Time

	formatFlag string
	fromFlag   string
	toFlag     string
	verbose    bool
}

// Option customizes the App, mostly for tests.
type Option func(*App)

// WithConfig skips loading configuration from the environment.
func WithConfig(cfg config.Config) Option {
	return func(a *App) { a.injectedCfg = &cfg }
}

// WithStore uses st instead of opening the configured backend. The caller
// keeps ownership of st.
func WithStore(st store.LogStore) Option {
	return func(a *App) { a.injectedStore = st }
}

// WithStoreOpener replaces store.Open. The App owns what open returns and
// closes it when the command finishes.
func WithStoreOpener(open func(context.Context, store.Options) (store.LogStore, error)) Option {
	return func(a *App) { a.openStore = open }
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.clock = now }
}

// NewRootCommand builds the fuelctl command tree. Resources opened by a
// command are released after it succeeds; use Execute to release them on
// failure too.
func NewRootCommand(opts ...Option) *cobra.Command {
	return newApp(opts...).command()
}

func newApp(opts ...Option) *App {
	a := &App{openStore: store.Open}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "fuelctl",
		Short: "Fuel command center CLI",
		Long: `fuelctl records fuel transactions and reports on the fuel logs.

It reads the same configuration as the API server (environment, .env and the
YAML file named by FUEL_CONFIG) and talks to the configured log store directly.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error { return a.close() },
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.formatFlag, "output", "o", "", "output format: table, json or yaml (default table on a terminal, else json)")
	pf.StringVar(&a.fromFlag, "from", "", "first day of the report window (YYYY-MM-DD)")
	pf.StringVar(&a.toFlag, "to", "", "last day of the report window (YYYY-MM-DD)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddGroup(
		&cobra.Group{ID: "reports", Title: "Report Commands:"},
		&cobra.Group{ID: "entry", Title: "Entry Commands:"},
		&cobra.Group{ID: "admin", Title: "Management Commands:"},
	)
	root.AddCommand(
		a.dashboardCmd(),
		a.consumptionCmd(),
		a.qualityCmd(),
		a.balancesCmd(),
		a.assetsCmd(),
		a.tankersCmd(),
		a.dispenseCmd(),
		a.receiveCmd(),
		a.exportCmd(),
		a.initCmd(),
	)
	return root
}

// Execute runs fuelctl with signal-aware ctx. The store and the Kafka
// producer are closed whether or not the command succeeds; cobra skips
// post-run hooks after an error.
func Execute(ctx context.Context, args []string, opts ...Option) error {
	a := newApp(opts...)
	root := a.command()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return true
		}
	}
	return false
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	if skipSetup(cmd) {
		return nil
	}

	format, err := output.ParseFormat(a.formatFlag)
	if err != nil {
		return err
	}
	a.format = output.DetectFormat(string(format))

	a.window, err = analytics.ParseWindow(a.fromFlag, a.toFlag)
	if err != nil {
		return err
	}

	if a.injectedCfg != nil {
		a.cfg = *a.injectedCfg
	} else if a.cfg, err = config.Load(); err != nil {
		return err
	}
	if a.verbose {
		a.cfg.Log.Level = "debug"
	}
	logging.Configure(a.cfg.Log)

	ctx := cmd.Context()
	a.store = a.injectedStore
	if a.store == nil {
		if a.store, err = a.openStore(ctx, a.cfg.Store); err != nil {
			return fmt.Errorf("open %s store: %w", a.cfg.Store.Backend, err)
		}
	}

	opts := []fuel.Option{
		fuel.WithLimits(a.cfg.Limits),
		fuel.WithTankers(a.cfg.Tankers),
		fuel.WithTankerCapacity(a.cfg.TankerCapacity),
	}
	if a.clock != nil {
		opts = append(opts, fuel.WithClock(a.clock))
	}
	if a.cfg.Kafka.Enabled() {
		if a.kafka, err = notify.NewKafka(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic); err != nil {
			return err
		}
		opts = append(opts, fuel.WithNotifier(a.kafka))
	}
	a.svc = fuel.NewService(a.store, opts...)

	logging.Default().Debug().
		Str("backend", a.cfg.Store.Backend).
		Str("format", string(a.format)).
		Msg("fuelctl ready")
	return nil
}

// close releases the Kafka producer and any store the App opened. It runs
// from the post-run hook and again from Execute, so it clears what it closes.
func (a *App) close() error {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			logging.Default().Warn().Err(err).Msg("close kafka producer")
		}
		a.kafka = nil
	}
	st := a.store
	a.store = nil
	if st == nil || a.injectedStore != nil {
		return nil
	}
	return st.Close()
}

// print writes raw in the selected format, using table() for table output.
func (a *App) print(cmd *cobra.Command, raw any, table func() any) error {
	return output.NewFormatter(a.format).Format(cmd.OutOrStdout(), output.Render(a.format, raw, table))
}
