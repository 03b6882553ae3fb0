package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestInvoiceService() (*InvoiceService, *MockInvoiceRepository, *MockCustomerRepository, *MockRevalidator) {
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)
	revalidator := new(MockRevalidator)

	s := NewInvoiceService(invoiceRepo, customerRepo, revalidator, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC) }
	return s, invoiceRepo, customerRepo, revalidator
}

func TestCreateInvoice_Success(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, revalidator := newTestInvoiceService()

	invoiceRepo.On("Create", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.CustomerID == "cust-1" &&
			inv.Amount == 1999 &&
			inv.Status == domain.InvoiceStatusPending &&
			inv.Date == "2024-03-09"
	})).Return(nil)
	revalidator.On("Revalidate", ctx, domain.InvoicesPath).Return(nil)
	revalidator.On("Revalidate", ctx, domain.CustomersPath).Return(nil)

	state := s.CreateInvoice(ctx, InvoiceInput{
		CustomerID:  "cust-1",
		AmountCents: domain.DollarsToCents(19.99),
		Status:      domain.InvoiceStatusPending,
	})

	assert.True(t, state.Succeeded())
	assert.Equal(t, domain.InvoicesPath, state.Redirect)
	assert.Empty(t, state.Message)
	invoiceRepo.AssertExpectations(t)
	revalidator.AssertExpectations(t)
}

func TestCreateInvoice_DatabaseError(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, revalidator := newTestInvoiceService()

	invoiceRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	state := s.CreateInvoice(ctx, InvoiceInput{CustomerID: "cust-1", AmountCents: 100, Status: domain.InvoiceStatusPaid})

	assert.False(t, state.Succeeded())
	assert.Equal(t, MsgCreateInvoiceFailed, state.Message)
	revalidator.AssertNotCalled(t, "Revalidate", mock.Anything, mock.Anything)
}

func TestCreateInvoice_InvalidInputHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, revalidator := newTestInvoiceService()

	state := s.CreateInvoice(ctx, InvoiceInput{CustomerID: "cust-1", AmountCents: 0, Status: domain.InvoiceStatusPaid})

	assert.False(t, state.Succeeded())
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	revalidator.AssertNotCalled(t, "Revalidate", mock.Anything, mock.Anything)
}

func TestCreateInvoice_RevalidateFailureStillRedirects(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, revalidator := newTestInvoiceService()

	invoiceRepo.On("Create", ctx, mock.Anything).Return(nil)
	revalidator.On("Revalidate", ctx, domain.InvoicesPath).Return(errors.New("redis down"))
	revalidator.On("Revalidate", ctx, domain.CustomersPath).Return(nil)

	state := s.CreateInvoice(ctx, InvoiceInput{CustomerID: "cust-1", AmountCents: 100, Status: domain.InvoiceStatusPaid})

	assert.True(t, state.Succeeded())
}

func TestUpdateInvoice_KeepsDate(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, revalidator := newTestInvoiceService()

	invoiceRepo.On("Update", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.ID == "inv-1" && inv.Amount == 25000 && inv.Status == domain.InvoiceStatusPaid && inv.Date == ""
	})).Return(nil)
	revalidator.On("Revalidate", ctx, domain.InvoicesPath).Return(nil)
	revalidator.On("Revalidate", ctx, domain.CustomersPath).Return(nil)

	state := s.UpdateInvoice(ctx, "inv-1", InvoiceInput{CustomerID: "cust-2", AmountCents: 25000, Status: domain.InvoiceStatusPaid})

	assert.True(t, state.Succeeded())
	invoiceRepo.AssertExpectations(t)
}

func TestUpdateInvoice_NotFound(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, _ := newTestInvoiceService()

	invoiceRepo.On("Update", ctx, mock.Anything).Return(domain.ErrInvoiceNotFound)

	state := s.UpdateInvoice(ctx, "missing", InvoiceInput{CustomerID: "cust-2", AmountCents: 1, Status: domain.InvoiceStatusPaid})

	assert.False(t, state.Succeeded())
	assert.Equal(t, MsgUpdateInvoiceFailed, state.Message)
}

func TestDeleteInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, invoiceRepo, _, revalidator := newTestInvoiceService()
		invoiceRepo.On("Delete", ctx, "inv-1").Return(nil)
		revalidator.On("Revalidate", ctx, domain.InvoicesPath).Return(nil)
		revalidator.On("Revalidate", ctx, domain.CustomersPath).Return(nil)

		state := s.DeleteInvoice(ctx, "inv-1")

		assert.True(t, state.Succeeded())
		assert.Equal(t, MsgInvoiceDeleted, state.Message)
		revalidator.AssertExpectations(t)
		revalidator.AssertNumberOfCalls(t, "Revalidate", 2)
	})

	t.Run("failure", func(t *testing.T) {
		s, invoiceRepo, _, revalidator := newTestInvoiceService()
		invoiceRepo.On("Delete", ctx, "inv-1").Return(errors.New("deadlock"))

		state := s.DeleteInvoice(ctx, "inv-1")

		assert.False(t, state.Succeeded())
		assert.Equal(t, MsgDeleteInvoiceFailed, state.Message)
		revalidator.AssertNotCalled(t, "Revalidate", mock.Anything, mock.Anything)
	})
}

func TestListInvoices_Pagination(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, _ := newTestInvoiceService()

	items := []*domain.InvoiceListItem{{Invoice: domain.Invoice{ID: "inv-7"}}}
	invoiceRepo.On("List", ctx, domain.InvoiceFilter{Query: "amy", Page: 2, PageSize: InvoicesPerPage}).
		Return(items, int64(13), nil)

	page, err := s.ListInvoices(ctx, "amy", 2)

	assert.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 1)
}

func TestListInvoices_PageBelowOne(t *testing.T) {
	ctx := context.Background()
	s, invoiceRepo, _, _ := newTestInvoiceService()

	invoiceRepo.On("List", ctx, domain.InvoiceFilter{Page: 1, PageSize: InvoicesPerPage}).
		Return([]*domain.InvoiceListItem{}, int64(0), nil)

	page, err := s.ListInvoices(ctx, "", -4)

	assert.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.TotalPages)
}
