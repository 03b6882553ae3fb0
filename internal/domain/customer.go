package domain

import (
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// PlaceholderImageURL is stored for customers that never uploaded an avatar.
const PlaceholderImageURL = "/customers/default.png"

// Customer owns invoices and at most one avatar image
type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

// NewCustomer creates a customer, falling back to the placeholder avatar
func NewCustomer(name, email, imageURL string) *Customer {
	if strings.TrimSpace(imageURL) == "" {
		imageURL = PlaceholderImageURL
	}
	return &Customer{
		Name:     name,
		Email:    email,
		ImageURL: imageURL,
	}
}

// HasCustomImage reports whether the avatar lives in the blob store.
func (c *Customer) HasCustomImage() bool {
	return IsCustomImage(c.ImageURL)
}

// IsCustomImage reports whether url points at an uploaded blob rather than the placeholder.
func IsCustomImage(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != PlaceholderImageURL
}

// CustomerListItem is the row shown on the customers listing
type CustomerListItem struct {
	Customer
	TotalInvoices int64
	TotalPending  int64 // in cents
	TotalPaid     int64 // in cents
}

// CustomerOption feeds the customer select on invoice forms
type CustomerOption struct {
	ID   string
	Name string
}

// CustomerImageKey builds the blob key for a freshly uploaded avatar.
// The random suffix keeps a re-upload from overwriting the image it replaces.
func CustomerImageKey(customerName, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "png"
	}
	base := sanitizeKeyPart(customerName)
	if base == "" {
		base = "customer"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return "customers/" + base + "-" + suffix + "." + sanitizeKeyPart(ext)
}

func sanitizeKeyPart(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || unicode.IsDigit(r) || (r >= 'a' && r <= 'z') {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return unicode.ToLower(r)
		}
		return '-'
	}, strings.TrimSpace(s))
	for strings.Contains(mapped, "--") {
		mapped = strings.ReplaceAll(mapped, "--", "-")
	}
	return strings.Trim(mapped, "-")
}
