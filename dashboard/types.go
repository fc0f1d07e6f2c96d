package dashboard

type Revenue struct {
	Month   string `db:"month" json:"month"`
	Revenue int64  `db:"revenue" json:"revenue"`
}

type LatestInvoice struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	ImageURL string `db:"image_url" json:"image_url"`
	Email    string `db:"email" json:"email"`
	Amount   string `db:"-" json:"amount"`
}

type CardData struct {
	NumberOfCustomers    int64  `json:"numberOfCustomers"`
	NumberOfInvoices     int64  `json:"numberOfInvoices"`
	TotalPaidInvoices    string `json:"totalPaidInvoices"`
	TotalPendingInvoices string `json:"totalPendingInvoices"`
}

// InvoiceRow is one line of the invoices table. Amount is in cents.
type InvoiceRow struct {
	ID         string `db:"id" json:"id"`
	CustomerID string `db:"customer_id" json:"customer_id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	ImageURL   string `db:"image_url" json:"image_url"`
	Date       string `db:"date" json:"date"`
	Amount     int64  `db:"amount" json:"amount"`
	Status     string `db:"status" json:"status"`
}

// InvoiceForm is an invoice as edited in the form. Amount is in currency units.
type InvoiceForm struct {
	ID         string  `db:"id" json:"id"`
	CustomerID string  `db:"customer_id" json:"customer_id"`
	Amount     float64 `db:"-" json:"amount"`
	Status     string  `db:"status" json:"status"`
}

type CustomerField struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type CustomerRow struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	ImageURL      string `db:"image_url" json:"image_url"`
	TotalInvoices int64  `db:"total_invoices" json:"total_invoices"`
	TotalPending  string `db:"-" json:"total_pending"`
	TotalPaid     string `db:"-" json:"total_paid"`
}
