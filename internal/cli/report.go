package cli

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ledgerdash/dashboard"
	"ledgerdash/query"
)

// withStore runs fn with the configured store in the process slot of ctx.
func withStore(cmd *cobra.Command, rootOpts *RootOptions, fn func(ctx context.Context, d *dashboard.Data) error) error {
	store, closeStore, err := openStore(cmd.Context(), rootOpts.Config)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := query.WithProcessStore(cmd.Context(), store)
	return fn(ctx, &dashboard.Data{PageSize: rootOpts.Config.Dashboard.ItemsPerPage})
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	return t
}

// NewInvoicesCommand creates the invoices command.
func NewInvoicesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		q    string
		page int
	)
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List invoices matching a search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(ctx context.Context, d *dashboard.Data) error {
				rows, err := d.FetchFilteredInvoices(ctx, q, page)
				if err != nil {
					return err
				}
				pages, err := d.FetchInvoicesPages(ctx, q)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				t := newTable(out, "ID", "Customer", "Email", "Amount", "Date", "Status")
				for _, r := range rows {
					t.Append([]string{r.ID, r.Name, r.Email, dashboard.FormatCurrency(r.Amount), r.Date, r.Status})
				}
				t.Render()
				info(out, "page %d of %d", page, pages)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "search term")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

// NewCustomersCommand creates the customers command.
func NewCustomersCommand(rootOpts *RootOptions) *cobra.Command {
	var q string
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List customers with their invoice totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(ctx context.Context, d *dashboard.Data) error {
				rows, err := d.FetchFilteredCustomers(ctx, q)
				if err != nil {
					return err
				}
				t := newTable(cmd.OutOrStdout(), "Name", "Email", "Invoices", "Pending", "Paid")
				for _, r := range rows {
					t.Append([]string{r.Name, r.Email, humanize.Comma(r.TotalInvoices), r.TotalPending, r.TotalPaid})
				}
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "search term")
	return cmd
}

// NewCardsCommand creates the cards command.
func NewCardsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "Show the dashboard summary cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(ctx context.Context, d *dashboard.Data) error {
				cards, err := d.FetchCardData(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				info(out, "Collected:       %s", cards.TotalPaidInvoices)
				info(out, "Pending:         %s", cards.TotalPendingInvoices)
				info(out, "Total invoices:  %s", humanize.Comma(cards.NumberOfInvoices))
				info(out, "Total customers: %s", humanize.Comma(cards.NumberOfCustomers))
				return nil
			})
		},
	}
}
