package domain

import (
	"errors"
	"math"
	"time"
)

// Domain errors
var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidAmount    = errors.New("invalid invoice amount")
	ErrInvalidStatus    = errors.New("invalid invoice status")
	ErrInvalidCustomer  = errors.New("invalid customer reference")
)

// DateLayout is the storage format of an invoice issue date.
const DateLayout = "2006-01-02"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice represents a bill issued to a customer
type Invoice struct {
	ID         string
	CustomerID string
	Amount     int64 // in cents
	Status     InvoiceStatus
	Date       string
}

// NewInvoice creates an invoice issued on the given day
func NewInvoice(customerID string, amountCents int64, status InvoiceStatus, issuedAt time.Time) (*Invoice, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomer
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	return &Invoice{
		CustomerID: customerID,
		Amount:     amountCents,
		Status:     status,
		Date:       issuedAt.Format(DateLayout),
	}, nil
}

// MaxInvoiceDollars bounds accepted amounts so their cents stay exact in a
// float64 and well inside int64.
const MaxInvoiceDollars = 1e13

// DollarsToCents converts a dollar amount into integer cents.
// The result is rounded so that 19.99 becomes 1999 rather than 1998.
func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// CentsToDollars is the inverse of DollarsToCents, used to prefill edit forms.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// InvoiceListItem is the row shown on the invoices listing
type InvoiceListItem struct {
	Invoice
	CustomerName  string
	CustomerEmail string
	ImageURL      string
}

// InvoiceFilter narrows the invoices listing
type InvoiceFilter struct {
	Query    string
	Page     int
	PageSize int
}

// Offset returns the row offset for the filter's page.
func (f InvoiceFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
