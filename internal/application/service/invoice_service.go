package service

import (
	"context"
	"errors"
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

// InvoicesPerPage is the page size of the invoices listing.
const InvoicesPerPage = 6

type InvoiceService struct {
	invoiceRepo  domain.InvoiceRepository
	customerRepo domain.CustomerRepository
	revalidator  domain.PathRevalidator
	logger       *zap.Logger
	now          func() time.Time
}

func NewInvoiceService(
	invoiceRepo domain.InvoiceRepository,
	customerRepo domain.CustomerRepository,
	revalidator domain.PathRevalidator,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		revalidator:  revalidator,
		logger:       logger,
		now:          time.Now,
	}
}

// InvoiceInput is a validated invoice form.
type InvoiceInput struct {
	CustomerID  string
	AmountCents int64
	Status      domain.InvoiceStatus
}

type InvoicePage struct {
	Items      []*domain.InvoiceListItem
	Page       int
	TotalPages int
	Total      int64
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, in InvoiceInput) *ActionState {
	invoice, err := domain.NewInvoice(in.CustomerID, in.AmountCents, in.Status, s.now())
	if err != nil {
		s.logger.Error("invalid invoice input", zap.Error(err), zap.String("customer_id", in.CustomerID))
		return failed(MsgCreateInvoiceFailed)
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.logger.Error("failed to create invoice",
			zap.Error(err),
			zap.String("customer_id", in.CustomerID),
		)
		return failed(MsgCreateInvoiceFailed)
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID),
		zap.String("customer_id", invoice.CustomerID),
		zap.Int64("amount", invoice.Amount),
	)

	revalidate(ctx, s.revalidator, s.logger, domain.InvoicesPath, domain.CustomersPath)
	return redirectTo(domain.InvoicesPath)
}

// UpdateInvoice rewrites customer, amount and status; the issue date is kept.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, invoiceID string, in InvoiceInput) *ActionState {
	if in.CustomerID == "" || in.AmountCents <= 0 || !in.Status.Valid() {
		s.logger.Error("invalid invoice input", zap.String("invoice_id", invoiceID))
		return failed(MsgUpdateInvoiceFailed)
	}

	invoice := &domain.Invoice{
		ID:         invoiceID,
		CustomerID: in.CustomerID,
		Amount:     in.AmountCents,
		Status:     in.Status,
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logger.Error("failed to update invoice",
			zap.Error(err),
			zap.String("invoice_id", invoiceID),
		)
		return failed(MsgUpdateInvoiceFailed)
	}

	s.logger.Info("invoice updated", zap.String("invoice_id", invoiceID))

	revalidate(ctx, s.revalidator, s.logger, domain.InvoicesPath, domain.CustomersPath)
	return redirectTo(domain.InvoicesPath)
}

// DeleteInvoice reports its outcome in Message; on success Redirect points
// back at the listing.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, invoiceID string) *ActionState {
	if err := s.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		s.logger.Error("failed to delete invoice",
			zap.Error(err),
			zap.String("invoice_id", invoiceID),
		)
		return failed(MsgDeleteInvoiceFailed)
	}

	s.logger.Info("invoice deleted", zap.String("invoice_id", invoiceID))

	revalidate(ctx, s.revalidator, s.logger, domain.InvoicesPath, domain.CustomersPath)
	return &ActionState{Message: MsgInvoiceDeleted, Redirect: domain.InvoicesPath}
}

func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, domain.ErrInvoiceNotFound) {
			s.logger.Error("failed to get invoice", zap.Error(err), zap.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context, query string, page int) (*InvoicePage, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.invoiceRepo.List(ctx, domain.InvoiceFilter{
		Query:    query,
		Page:     page,
		PageSize: InvoicesPerPage,
	})
	if err != nil {
		s.logger.Error("failed to list invoices", zap.Error(err), zap.String("query", query))
		return nil, err
	}

	return &InvoicePage{
		Items:      items,
		Page:       page,
		TotalPages: int((total + InvoicesPerPage - 1) / InvoicesPerPage),
		Total:      total,
	}, nil
}

// CustomerOptions feeds the customer select of the invoice forms.
func (s *InvoiceService) CustomerOptions(ctx context.Context) ([]*domain.CustomerOption, error) {
	options, err := s.customerRepo.Options(ctx)
	if err != nil {
		s.logger.Error("failed to load customer options", zap.Error(err))
		return nil, err
	}
	return options, nil
}
