package cli

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the dashboard tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context(), rootOpts.Config)
			if err != nil {
				return err
			}
			defer closeStore()
			success(cmd.OutOrStdout(), "schema is up to date (%s)", store.Dialect())
			return nil
		},
	}
}
