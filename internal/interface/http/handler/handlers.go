package handler

import (
	"context"
	"net/http"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/cache"
	sqlrepository "github.com/gigmile/dashboard-service/internal/infrastructure/repository/sql"
	"github.com/gigmile/dashboard-service/internal/interface/http/session"
	"github.com/gigmile/dashboard-service/internal/interface/http/views"
	"go.uber.org/zap"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Invoice  *InvoiceHandler
	Customer *CustomerHandler

	Sessions *session.Manager
	// Avatars serves locally stored customer images; nil for remote blob stores.
	Avatars http.Handler
}

// Dependencies are the adapters the HTTP layer is assembled from.
type Dependencies struct {
	Repos          *sqlrepository.Repositories
	Blobs          domain.BlobStore
	ViewCache      cache.ViewCache
	EventPublisher domain.EventPublisher // Optional - can be nil
	Hasher         domain.PasswordHasher
	Sessions       *session.Manager
	Views          *views.Renderer
	MaxUploadBytes int64
	Avatars        http.Handler
	HealthChecks   map[string]func(context.Context) error
}

func NewHandlers(deps Dependencies, logger *zap.Logger) *Handlers {
	invoiceService := service.NewInvoiceService(deps.Repos.Invoice, deps.Repos.Customer, deps.ViewCache, logger)
	customerService := service.NewCustomerService(deps.Repos.Customer, deps.Blobs, deps.ViewCache, deps.EventPublisher, logger)
	authService := service.NewAuthService(deps.Repos.User, deps.Hasher, logger)

	pages := &pageWriter{views: deps.Views, logger: logger}

	return &Handlers{
		Health:   NewHealthHandler(deps.HealthChecks, logger),
		Auth:     NewAuthHandler(authService, deps.Sessions, pages, logger),
		Invoice:  NewInvoiceHandler(invoiceService, deps.ViewCache, pages, logger),
		Customer: NewCustomerHandler(customerService, deps.ViewCache, pages, deps.MaxUploadBytes, logger),
		Sessions: deps.Sessions,
		Avatars:  deps.Avatars,
	}
}
