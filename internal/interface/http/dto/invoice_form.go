package dto

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gigmile/dashboard-service/internal/domain"
)

type InvoiceForm struct {
	CustomerID string  `form:"customerId" validate:"required"`
	Amount     float64 `form:"amount" validate:"gt=0"`
	Status     string  `form:"status" validate:"oneof=pending paid"`

	// AmountRaw is echoed back into the form on failure.
	AmountRaw string `form:"-" validate:"-"`
}

var invoiceMessages = map[string]string{
	"customerId": "Please select a customer.",
	"amount":     "Please enter an amount greater than $0.",
	"status":     "Please select an invoice status.",
}

const amountTooLargeMessage = "Please enter a smaller amount."

// ParseInvoiceForm reads an urlencoded or multipart invoice form. A
// non-numeric amount is kept as 0 so validation rejects it.
func ParseInvoiceForm(r *http.Request) (*InvoiceForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	form := &InvoiceForm{
		CustomerID: strings.TrimSpace(r.PostFormValue("customerId")),
		Status:     strings.TrimSpace(r.PostFormValue("status")),
		AmountRaw:  strings.TrimSpace(r.PostFormValue("amount")),
	}
	if amount, err := strconv.ParseFloat(form.AmountRaw, 64); err == nil && !math.IsInf(amount, 0) && !math.IsNaN(amount) {
		form.Amount = amount
	}
	return form, nil
}

// Validate checks the tags, then the amount as it will be stored: it must be
// at least one cent and fit in int64 cents.
func (f *InvoiceForm) Validate() error {
	verr := check(f, invoiceMessages)
	if len(verr.Fields["amount"]) == 0 {
		switch {
		case f.Amount > domain.MaxInvoiceDollars:
			verr.add("amount", amountTooLargeMessage)
		case f.AmountCents() < 1:
			verr.add("amount", invoiceMessages["amount"])
		}
	}
	return verr.orNil()
}

func (f *InvoiceForm) AmountCents() int64 {
	return domain.DollarsToCents(f.Amount)
}

func (f *InvoiceForm) InvoiceStatus() domain.InvoiceStatus {
	return domain.InvoiceStatus(f.Status)
}
