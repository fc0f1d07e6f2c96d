package cli

import (
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ledgerdash/logging"
	"ledgerdash/query"
	"ledgerdash/seed"
	"ledgerdash/storage"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the placeholder dataset",
		Long:  "Load the placeholder users, customers, invoices and revenue. Existing rows are left alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := openStore(ctx, rootOpts.Config)
			if err != nil {
				return err
			}
			defer closeStore()

			data, err := seed.Placeholder()
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(data.Rows(),
				progressbar.OptionSetDescription("seeding..."),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionThrottle(time.Second/10),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetPredictTime(false),
			)
			c := query.NewClient(store,
				query.WithSourceDialect(storage.Dialect(rootOpts.Config.Database.SourceDialect)),
				query.WithLogger(logging.Logger()),
			)
			err = seed.Seed(ctx, c, data, seed.Options{
				Cost:     cost,
				Progress: func(done, total int) { _ = bar.Set(done) },
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Database seeded successfully (%d rows)", data.Rows())
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", seed.PasswordCost, "bcrypt cost for seeded passwords")
	return cmd
}
