// Package actions implements the invoice form actions: validate the
// submitted fields, write through the query shim and report a form State.
package actions

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledgerdash/dashboard"
	"ledgerdash/logging"
	"ledgerdash/query"
	"ledgerdash/storage"
)

// InvoicesPath is where a successful action sends the user.
const InvoicesPath = "/dashboard/invoices"

const (
	msgCustomer = "Please select a customer."
	msgAmount   = "Please enter an amount greater than 0."
	msgStatus   = "Please select an invoice status."
)

// State is what the form renders after an action.
type State struct {
	Errors   map[string][]string `json:"errors,omitempty"`
	Message  string              `json:"message,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

// OK reports whether the action succeeded.
func (s State) OK() bool { return s.Redirect != "" }

// Invoice holds validated form fields. Amount is in currency units.
type Invoice struct {
	CustomerID string
	Amount     float64
	Status     string
}

// Actions writes invoices. The zero value uses time.Now, uuid ids and the
// process logger.
type Actions struct {
	Now    func() time.Time
	NewID  func() string
	Logger *slog.Logger
}

var std = &Actions{}

func (a *Actions) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Actions) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

func (a *Actions) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return logging.Logger()
}

// Validate checks customerId, amount and status. The returned map is empty
// when the form is valid.
func Validate(form url.Values) (Invoice, map[string][]string) {
	errs := map[string][]string{}
	inv := Invoice{
		CustomerID: strings.TrimSpace(form.Get("customerId")),
		Status:     form.Get("status"),
	}

	if inv.CustomerID == "" {
		errs["customerId"] = append(errs["customerId"], msgCustomer)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(form.Get("amount")), 64)
	if err != nil || amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		errs["amount"] = append(errs["amount"], msgAmount)
	}
	inv.Amount = amount

	switch inv.Status {
	case "pending", "paid":
	default:
		errs["status"] = append(errs["status"], msgStatus)
	}
	return inv, errs
}

func CreateInvoice(ctx context.Context, form url.Values) State {
	return std.CreateInvoice(ctx, form)
}

// CreateInvoice stores a new invoice dated today.
func (a *Actions) CreateInvoice(ctx context.Context, form url.Values) State {
	inv, errs := Validate(form)
	if len(errs) > 0 {
		return State{Errors: errs, Message: "Missing Fields. Failed to Create Invoice."}
	}
	a.log().Debug("validated invoice", "customer_id", inv.CustomerID, "status", inv.Status)

	c, err := a.client(ctx)
	if err == nil {
		_, err = c.Query(`
			INSERT INTO invoices (id, customer_id, amount, status, date)
			VALUES (${}, ${}, ${}, ${}, ${})`,
			a.newID(), inv.CustomerID, dashboard.AmountToCents(inv.Amount), inv.Status, a.now().Format(time.DateOnly),
		).Run(ctx)
	}
	if err != nil {
		a.log().Error("Database Error", "error", err)
		return State{Message: "Database Error: Failed to Create Invoice."}
	}
	return State{Redirect: InvoicesPath}
}

func UpdateInvoice(ctx context.Context, id string, form url.Values) State {
	return std.UpdateInvoice(ctx, id, form)
}

func (a *Actions) UpdateInvoice(ctx context.Context, id string, form url.Values) State {
	inv, errs := Validate(form)
	if len(errs) > 0 {
		return State{Errors: errs, Message: "Missing Fields. Failed to Update Invoice."}
	}

	c, err := a.client(ctx)
	if err == nil {
		_, err = c.Query(`
			UPDATE invoices
			SET customer_id = ${}, amount = ${}, status = ${}
			WHERE id = ${}`,
			inv.CustomerID, dashboard.AmountToCents(inv.Amount), inv.Status, id,
		).Run(ctx)
	}
	if err != nil {
		a.log().Error("Database Error", "error", err)
		return State{Message: "Database Error: Failed to Update Invoice."}
	}
	return State{Redirect: InvoicesPath}
}

func DeleteInvoice(ctx context.Context, id string) State {
	return std.DeleteInvoice(ctx, id)
}

func (a *Actions) DeleteInvoice(ctx context.Context, id string) State {
	c, err := a.client(ctx)
	if err == nil {
		_, err = c.Query(`DELETE FROM invoices WHERE id = ${}`, id).Run(ctx)
	}
	if err != nil {
		a.log().Error("Database Error", "error", err)
		return State{Message: "Database Error: Failed to Delete Invoice."}
	}
	return State{Message: "Deleted Invoice.", Redirect: InvoicesPath}
}

func (a *Actions) client(ctx context.Context) (*query.Client, error) {
	return query.FromContext(ctx, query.WithSourceDialect(storage.Postgres), query.WithLogger(a.log()))
}
