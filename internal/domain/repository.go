package domain

import (
	"context"
	"errors"
	"io"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, invoiceID string) error
	FindByID(ctx context.Context, invoiceID string) (*Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*InvoiceListItem, int64, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	// Update writes name and email; the image URL is only written when imageURL is non-empty.
	Update(ctx context.Context, customerID, name, email, imageURL string) error
	FindByID(ctx context.Context, customerID string) (*Customer, error)
	FindImageURL(ctx context.Context, customerID string) (string, error)
	// DeleteWithInvoices removes the customer and every invoice referencing it.
	DeleteWithInvoices(ctx context.Context, customerID string) error
	List(ctx context.Context, query string) ([]*CustomerListItem, error)
	Options(ctx context.Context) ([]*CustomerOption, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// BlobStore keeps uploaded files and serves them from public URLs
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// PathRevalidator discards cached renderings of a listing view
type PathRevalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Listing paths invalidated by mutations.
const (
	InvoicesPath  = "/dashboard/invoices"
	CustomersPath = "/dashboard/customers"
)

var ErrBlobNotFound = errors.New("blob not found")
