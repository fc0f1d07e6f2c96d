// Package dashboard is the read side of the invoicing dashboard. Every
// function resolves its store from the request context.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ledgerdash/logging"
	"ledgerdash/query"
	"ledgerdash/storage"
)

const ItemsPerPage = 6

// Data runs the dashboard queries. The zero value uses ItemsPerPage and the
// process logger.
type Data struct {
	PageSize int
	Logger   *slog.Logger
}

var std = &Data{}

func (d *Data) pageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return ItemsPerPage
}

func (d *Data) log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Logger()
}

// Queries are written for Postgres and rewritten for other stores.
func (d *Data) client(ctx context.Context) (*query.Client, error) {
	return query.FromContext(ctx, query.WithSourceDialect(storage.Postgres), query.WithLogger(d.log()))
}

func (d *Data) fail(op, err error) error {
	d.log().Error("Database Error", "op", op.Error(), "error", err)
	return &Error{Op: op, Err: err}
}

func FetchRevenue(ctx context.Context) ([]Revenue, error) { return std.FetchRevenue(ctx) }

func (d *Data) FetchRevenue(ctx context.Context) ([]Revenue, error) {
	c, err := d.client(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchRevenue, err)
	}
	rows, err := c.Query(`SELECT month, revenue FROM revenue`).All(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchRevenue, err)
	}
	out, err := query.Decode[Revenue](rows)
	if err != nil {
		return nil, d.fail(ErrFetchRevenue, err)
	}
	return out, nil
}

func FetchLatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	return std.FetchLatestInvoices(ctx)
}

// FetchLatestInvoices returns the five most recent invoices with formatted
// amounts.
func (d *Data) FetchLatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	c, err := d.client(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchLatestInvoices, err)
	}
	rows, err := c.Query(`
		SELECT invoices.amount, customers.name, customers.image_url, customers.email, invoices.id
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		ORDER BY invoices.date DESC
		LIMIT 5`).All(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchLatestInvoices, err)
	}

	type latestRaw struct {
		LatestInvoice `db:",squash"`
		Cents         int64 `db:"amount"`
	}
	raw, err := query.Decode[latestRaw](rows)
	if err != nil {
		return nil, d.fail(ErrFetchLatestInvoices, err)
	}
	out := make([]LatestInvoice, 0, len(raw))
	for _, r := range raw {
		inv := r.LatestInvoice
		inv.Amount = FormatCurrency(r.Cents)
		out = append(out, inv)
	}
	return out, nil
}

func FetchCardData(ctx context.Context) (CardData, error) { return std.FetchCardData(ctx) }

// FetchCardData issues its three queries concurrently. Missing values count
// as zero.
func (d *Data) FetchCardData(ctx context.Context) (CardData, error) {
	c, err := d.client(ctx)
	if err != nil {
		return CardData{}, d.fail(ErrFetchCardData, err)
	}

	var (
		invoices, customers struct {
			Count int64 `db:"count"`
		}
		status struct {
			Paid    int64 `db:"paid"`
			Pending int64 `db:"pending"`
		}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return firstInto(gctx, c.Query(`SELECT COUNT(*) AS count FROM invoices`), &invoices)
	})
	g.Go(func() error {
		return firstInto(gctx, c.Query(`SELECT COUNT(*) AS count FROM customers`), &customers)
	})
	g.Go(func() error {
		return firstInto(gctx, c.Query(`SELECT
			SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END) AS paid,
			SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END) AS pending
			FROM invoices`), &status)
	})
	if err := g.Wait(); err != nil {
		return CardData{}, d.fail(ErrFetchCardData, err)
	}

	return CardData{
		NumberOfCustomers:    customers.Count,
		NumberOfInvoices:     invoices.Count,
		TotalPaidInvoices:    FormatCurrency(status.Paid),
		TotalPendingInvoices: FormatCurrency(status.Pending),
	}, nil
}

func firstInto[T any](ctx context.Context, r *query.Result, dst *T) error {
	row, ok, err := r.First(ctx)
	if err != nil || !ok {
		return err
	}
	v, err := query.DecodeOne[T](row)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

const invoiceSearch = `
	FROM invoices
	JOIN customers ON invoices.customer_id = customers.id
	WHERE
		customers.name ILIKE ${} OR
		customers.email ILIKE ${} OR
		invoices.amount::text ILIKE ${} OR
		invoices.date::text ILIKE ${} OR
		invoices.status ILIKE ${}`

func searchArgs(q string) []any {
	pattern := "%" + q + "%"
	return []any{pattern, pattern, pattern, pattern, pattern}
}

func FetchFilteredInvoices(ctx context.Context, q string, page int) ([]InvoiceRow, error) {
	return std.FetchFilteredInvoices(ctx, q, page)
}

// FetchFilteredInvoices returns one page of invoices matching q, newest
// first. Pages start at 1.
func (d *Data) FetchFilteredInvoices(ctx context.Context, q string, page int) ([]InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	size := d.pageSize()
	offset := (page - 1) * size

	c, err := d.client(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchInvoices, err)
	}
	args := append(searchArgs(q), size, offset)
	rows, err := c.Query(`
		SELECT
			invoices.id,
			invoices.customer_id,
			invoices.amount,
			invoices.date,
			invoices.status,
			customers.name,
			customers.email,
			customers.image_url`+invoiceSearch+`
		ORDER BY invoices.date DESC
		LIMIT ${} OFFSET ${}`, args...).All(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchInvoices, err)
	}
	out, err := query.Decode[InvoiceRow](rows)
	if err != nil {
		return nil, d.fail(ErrFetchInvoices, err)
	}
	return out, nil
}

func FetchInvoicesPages(ctx context.Context, q string) (int, error) {
	return std.FetchInvoicesPages(ctx, q)
}

// FetchInvoicesPages returns how many pages FetchFilteredInvoices has for q.
func (d *Data) FetchInvoicesPages(ctx context.Context, q string) (int, error) {
	c, err := d.client(ctx)
	if err != nil {
		return 0, d.fail(ErrFetchInvoicesPages, err)
	}
	var count struct {
		Count int64 `db:"count"`
	}
	if err := firstInto(ctx, c.Query(`SELECT COUNT(*) AS count`+invoiceSearch, searchArgs(q)...), &count); err != nil {
		return 0, d.fail(ErrFetchInvoicesPages, err)
	}
	size := int64(d.pageSize())
	return int((count.Count + size - 1) / size), nil
}

func FetchInvoiceByID(ctx context.Context, id string) (*InvoiceForm, error) {
	return std.FetchInvoiceByID(ctx, id)
}

// FetchInvoiceByID returns the invoice with its amount in currency units, or
// ErrInvoiceNotFound.
func (d *Data) FetchInvoiceByID(ctx context.Context, id string) (*InvoiceForm, error) {
	c, err := d.client(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchInvoice, err)
	}
	row, ok, err := c.Query(`
		SELECT
			invoices.id,
			invoices.customer_id,
			invoices.amount,
			invoices.status
		FROM invoices
		WHERE invoices.id = ${}`, id).First(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchInvoice, err)
	}
	if !ok {
		return nil, ErrInvoiceNotFound
	}

	raw, err := query.DecodeOne[struct {
		InvoiceForm `db:",squash"`
		Cents       int64 `db:"amount"`
	}](row)
	if err != nil {
		return nil, d.fail(ErrFetchInvoice, err)
	}
	inv := raw.InvoiceForm
	inv.Amount = CentsToAmount(raw.Cents)
	d.log().Debug("fetched invoice", "id", inv.ID)
	return &inv, nil
}

func FetchCustomers(ctx context.Context) ([]CustomerField, error) { return std.FetchCustomers(ctx) }

func (d *Data) FetchCustomers(ctx context.Context) ([]CustomerField, error) {
	c, err := d.client(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchCustomers, err)
	}
	rows, err := c.Query(`
		SELECT
			id,
			name
		FROM customers
		ORDER BY name ASC`).All(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchCustomers, err)
	}
	out, err := query.Decode[CustomerField](rows)
	if err != nil {
		return nil, d.fail(ErrFetchCustomers, err)
	}
	return out, nil
}

func FetchFilteredCustomers(ctx context.Context, q string) ([]CustomerRow, error) {
	return std.FetchFilteredCustomers(ctx, q)
}

// FetchFilteredCustomers returns customers matching q by name or email with
// their invoice totals.
func (d *Data) FetchFilteredCustomers(ctx context.Context, q string) ([]CustomerRow, error) {
	c, err := d.client(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchFilteredCustomer, err)
	}
	pattern := "%" + q + "%"
	rows, err := c.Query(`
		SELECT
			customers.id,
			customers.name,
			customers.email,
			customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END) AS total_pending,
			SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END) AS total_paid
		FROM customers
		LEFT JOIN invoices ON customers.id = invoices.customer_id
		WHERE
			customers.name ILIKE ${} OR
			customers.email ILIKE ${}
		GROUP BY customers.id, customers.name, customers.email, customers.image_url
		ORDER BY customers.name ASC`, pattern, pattern).All(ctx)
	if err != nil {
		return nil, d.fail(ErrFetchFilteredCustomer, err)
	}

	type customerRaw struct {
		CustomerRow `db:",squash"`
		Pending     int64 `db:"total_pending"`
		Paid        int64 `db:"total_paid"`
	}
	raw, err := query.Decode[customerRaw](rows)
	if err != nil {
		return nil, d.fail(ErrFetchFilteredCustomer, err)
	}
	out := make([]CustomerRow, 0, len(raw))
	for _, r := range raw {
		cr := r.CustomerRow
		cr.TotalPending = FormatCurrency(r.Pending)
		cr.TotalPaid = FormatCurrency(r.Paid)
		out = append(out, cr)
	}
	return out, nil
}
