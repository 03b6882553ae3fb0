package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMInvoiceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewInvoiceRepository(db *gorm.DB, logger *zap.Logger) *GORMInvoiceRepository {
	return &GORMInvoiceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GORMInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}

	model := persistence.InvoiceModelFromDomain(invoice)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create invoice", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	r.logger.Debug("invoice created",
		zap.String("invoice_id", invoice.ID),
		zap.String("customer_id", invoice.CustomerID),
	)

	return nil
}

func (r *GORMInvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&persistence.InvoiceModel{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"customer_id": invoice.CustomerID,
			"amount":      invoice.Amount,
			"status":      string(invoice.Status),
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update invoice",
			zap.Error(result.Error),
			zap.String("invoice_id", invoice.ID),
		)
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// MySQL reports zero affected rows when nothing changed, so confirm the row exists.
		exists, err := r.exists(ctx, invoice.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrInvoiceNotFound
		}
	}

	return nil
}

func (r *GORMInvoiceRepository) Delete(ctx context.Context, invoiceID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", invoiceID).
		Delete(&persistence.InvoiceModel{})

	if result.Error != nil {
		r.logger.Error("failed to delete invoice",
			zap.Error(result.Error),
			zap.String("invoice_id", invoiceID),
		)
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

func (r *GORMInvoiceRepository) FindByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var model persistence.InvoiceModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", invoiceID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		r.logger.Error("failed to query invoice", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMInvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.InvoiceListItem, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Table("invoices").
			Joins("JOIN customers ON invoices.customer_id = customers.id")
		if filter.Query != "" {
			like := likePattern(filter.Query)
			q = q.Where(
				likeAny("LOWER(customers.name)", "LOWER(customers.email)", textCast(r.db, "invoices.amount"), "invoices.date", "LOWER(invoices.status)"),
				like, like, like, like, like,
			)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		r.logger.Error("failed to count invoices", zap.Error(err))
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	q := base()
	if filter.PageSize > 0 {
		q = q.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var rows []persistence.InvoiceListRow
	result := q.
		Select("invoices.id, invoices.customer_id, invoices.amount, invoices.status, invoices.date, " +
			"customers.name AS customer_name, customers.email AS customer_email, customers.image_url").
		Order("invoices.date DESC, invoices.created_at DESC").
		Scan(&rows)

	if result.Error != nil {
		r.logger.Error("failed to list invoices",
			zap.Error(result.Error),
			zap.String("query", filter.Query),
			zap.Int("page", filter.Page),
		)
		return nil, 0, fmt.Errorf("database error: %w", result.Error)
	}

	items := make([]*domain.InvoiceListItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}

	return items, total, nil
}

func (r *GORMInvoiceRepository) exists(ctx context.Context, invoiceID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&persistence.InvoiceModel{}).
		Where("id = ?", invoiceID).
		Count(&count)

	if result.Error != nil {
		return false, fmt.Errorf("database error: %w", result.Error)
	}
	return count > 0, nil
}
