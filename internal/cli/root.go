package cli

import (
	"github.com/spf13/cobra"

	"ledgerdash/config"
	"ledgerdash/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	DB         string
	Driver     string

	// Config is loaded before any subcommand runs.
	Config *config.Config
	loader *config.Loader
}

// NewRootCommand creates the root command for the ledgerdash CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "ledgerdash",
		Short:         "ledgerdash - invoicing dashboard backend",
		Long:          "Serve, seed and inspect the invoicing dashboard over SQLite, Postgres or MySQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default .ledgerdash.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "store location, overrides DB and DATABASE_URL")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "store driver (sqlite|pgx|postgres|mysql)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewInvoicesCommand(opts))
	cmd.AddCommand(NewCustomersCommand(opts))
	cmd.AddCommand(NewCardsCommand(opts))

	return cmd
}

func (o *RootOptions) load(cmd *cobra.Command) error {
	o.loader = config.New(config.AppFs)
	v := o.loader.Viper()
	if err := v.BindPFlag("database.driver", cmd.Root().PersistentFlags().Lookup("driver")); err != nil {
		return err
	}
	if err := v.BindPFlag("database.dsn", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
		return err
	}

	cfg, err := o.loader.Load(o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	o.Config = cfg
	return nil
}
