package persistence

import (
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
)

// InvoiceModel represents the database schema for invoices
type InvoiceModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(50)"`
	CustomerID string    `gorm:"type:varchar(50);not null;index"`
	Amount     int64     `gorm:"not null"`
	Status     string    `gorm:"type:varchar(20);not null;index"`
	Date       string    `gorm:"type:varchar(10);not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts database model to domain entity
func (m *InvoiceModel) ToDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Status:     domain.InvoiceStatus(m.Status),
		Date:       m.Date,
	}
}

// InvoiceModelFromDomain converts domain entity to database model
func InvoiceModelFromDomain(invoice *domain.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount,
		Status:     string(invoice.Status),
		Date:       invoice.Date,
	}
}

// CustomerModel represents the database schema for customers
type CustomerModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(50)"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	Email     string    `gorm:"type:varchar(255);not null"`
	ImageURL  string    `gorm:"type:varchar(512);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts database model to domain entity
func (m *CustomerModel) ToDomain() *domain.Customer {
	return &domain.Customer{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		ImageURL: m.ImageURL,
	}
}

// CustomerModelFromDomain converts domain entity to database model
func CustomerModelFromDomain(customer *domain.Customer) *CustomerModel {
	return &CustomerModel{
		ID:       customer.ID,
		Name:     customer.Name,
		Email:    customer.Email,
		ImageURL: customer.ImageURL,
	}
}

// UserModel represents the database schema for dashboard users
type UserModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(50)"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts database model to domain entity
func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
	}
}

// UserModelFromDomain converts domain entity to database model
func UserModelFromDomain(user *domain.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
}

// AllModels lists every table managed by AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{&UserModel{}, &CustomerModel{}, &InvoiceModel{}}
}

// InvoiceListRow is scanned from the invoices/customers join.
type InvoiceListRow struct {
	ID            string
	CustomerID    string
	Amount        int64
	Status        string
	Date          string
	CustomerName  string
	CustomerEmail string
	ImageURL      string
}

func (r *InvoiceListRow) ToDomain() *domain.InvoiceListItem {
	return &domain.InvoiceListItem{
		Invoice: domain.Invoice{
			ID:         r.ID,
			CustomerID: r.CustomerID,
			Amount:     r.Amount,
			Status:     domain.InvoiceStatus(r.Status),
			Date:       r.Date,
		},
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		ImageURL:      r.ImageURL,
	}
}

// CustomerListRow is scanned from the customers listing aggregate.
type CustomerListRow struct {
	ID            string
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

func (r *CustomerListRow) ToDomain() *domain.CustomerListItem {
	return &domain.CustomerListItem{
		Customer: domain.Customer{
			ID:       r.ID,
			Name:     r.Name,
			Email:    r.Email,
			ImageURL: r.ImageURL,
		},
		TotalInvoices: r.TotalInvoices,
		TotalPending:  r.TotalPending,
		TotalPaid:     r.TotalPaid,
	}
}
