package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ledgerdash/config"
	"ledgerdash/logging"
	"ledgerdash/server"
)

type serveOptions struct {
	root *RootOptions
	addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Long: `Serve the dashboard API over HTTP.

The store is opened once at boot and attached to every request. Sessions live
in the same store unless sessions.backend is mongo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from http.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg := opts.root.Config
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, closeSessions, err := openSessions(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeSessions()

	if err := opts.root.loader.Watch(func(c *config.Config) {
		logging.SetLevel(c.Log.Level)
		logging.Info("config reloaded", "log_level", c.Log.Level)
	}); err != nil {
		logging.Debug("config watch disabled", "reason", err)
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.HTTP.Addr
	}
	srv := server.New(server.Config{
		Store:        store,
		Sessions:     sessions,
		ItemsPerPage: cfg.Dashboard.ItemsPerPage,
		Logger:       logging.With("component", "server"),
	})
	info(cmd.OutOrStdout(), "serving %s store on %s", store.Dialect(), addr)
	return srv.ListenAndServe(ctx, addr)
}
