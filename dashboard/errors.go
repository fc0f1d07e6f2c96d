package dashboard

import "errors"

// User-facing failures. The store error is kept in the chain but not in the
// message.
var (
	ErrFetchRevenue          = errors.New("Failed to fetch revenue data.")
	ErrFetchLatestInvoices   = errors.New("Failed to fetch the latest invoices.")
	ErrFetchCardData         = errors.New("Failed to fetch card data.")
	ErrFetchInvoices         = errors.New("Failed to fetch invoices.")
	ErrFetchInvoicesPages    = errors.New("Failed to fetch total number of invoices.")
	ErrFetchInvoice          = errors.New("Failed to fetch invoice.")
	ErrFetchCustomers        = errors.New("Failed to fetch all customers.")
	ErrFetchFilteredCustomer = errors.New("Failed to fetch customer table.")

	ErrInvoiceNotFound = errors.New("invoice not found")
)

// Error carries a user-facing failure and the cause behind it.
type Error struct {
	Op  error
	Err error
}

func (e *Error) Error() string { return e.Op.Error() }

func (e *Error) Unwrap() []error { return []error{e.Op, e.Err} }
