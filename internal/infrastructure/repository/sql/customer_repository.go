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

type GORMCustomerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCustomerRepository(db *gorm.DB, logger *zap.Logger) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GORMCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}

	model := persistence.CustomerModelFromDomain(customer)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create customer", zap.Error(result.Error))
		return fmt.Errorf("failed to create customer: %w", result.Error)
	}

	r.logger.Info("customer created",
		zap.String("customer_id", customer.ID),
	)

	return nil
}

func (r *GORMCustomerRepository) Update(ctx context.Context, customerID, name, email, imageURL string) error {
	updates := map[string]interface{}{
		"name":       name,
		"email":      email,
		"updated_at": time.Now(),
	}
	if imageURL != "" {
		updates["image_url"] = imageURL
	}

	result := r.db.WithContext(ctx).
		Model(&persistence.CustomerModel{}).
		Where("id = ?", customerID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("failed to update customer",
			zap.Error(result.Error),
			zap.String("customer_id", customerID),
		)
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindImageURL(ctx, customerID); err != nil {
			return err
		}
	}

	return nil
}

func (r *GORMCustomerRepository) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	var model persistence.CustomerModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", customerID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		r.logger.Error("failed to query customer", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMCustomerRepository) FindImageURL(ctx context.Context, customerID string) (string, error) {
	var model persistence.CustomerModel
	result := r.db.WithContext(ctx).
		Select("image_url").
		First(&model, "id = ?", customerID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", domain.ErrCustomerNotFound
		}
		r.logger.Error("failed to query customer image",
			zap.Error(result.Error),
			zap.String("customer_id", customerID),
		)
		return "", fmt.Errorf("database error: %w", result.Error)
	}

	return model.ImageURL, nil
}

func (r *GORMCustomerRepository) DeleteWithInvoices(ctx context.Context, customerID string) error {
	var invoicesDeleted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("customer_id = ?", customerID).Delete(&persistence.InvoiceModel{})
		if res.Error != nil {
			return res.Error
		}
		invoicesDeleted = res.RowsAffected

		res = tx.Where("id = ?", customerID).Delete(&persistence.CustomerModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCustomerNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return err
		}
		r.logger.Error("failed to delete customer",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		return fmt.Errorf("database error: %w", err)
	}

	r.logger.Info("customer deleted",
		zap.String("customer_id", customerID),
		zap.Int64("invoices_deleted", invoicesDeleted),
	)

	return nil
}

func (r *GORMCustomerRepository) List(ctx context.Context, query string) ([]*domain.CustomerListItem, error) {
	q := r.db.WithContext(ctx).
		Table("customers").
		Select("customers.id, customers.name, customers.email, customers.image_url, " +
			"COUNT(invoices.id) AS total_invoices, " +
			"COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS total_pending, " +
			"COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS total_paid").
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id")

	if query != "" {
		like := likePattern(query)
		q = q.Where(likeAny("LOWER(customers.name)", "LOWER(customers.email)"), like, like)
	}

	var rows []persistence.CustomerListRow
	result := q.
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Scan(&rows)

	if result.Error != nil {
		r.logger.Error("failed to list customers",
			zap.Error(result.Error),
			zap.String("query", query),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	items := make([]*domain.CustomerListItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}

	return items, nil
}

func (r *GORMCustomerRepository) Options(ctx context.Context) ([]*domain.CustomerOption, error) {
	var models []persistence.CustomerModel

	result := r.db.WithContext(ctx).
		Select("id", "name").
		Order("name ASC").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query customers: %w", result.Error)
	}

	options := make([]*domain.CustomerOption, len(models))
	for i, model := range models {
		options[i] = &domain.CustomerOption{ID: model.ID, Name: model.Name}
	}

	return options, nil
}
