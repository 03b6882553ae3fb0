package router

import (
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/interface/http/handler"
	"github.com/gigmile/dashboard-service/internal/interface/http/middleware"
	"github.com/gigmile/dashboard-service/internal/interface/http/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(handlers *handler.Handlers, maxUploadBytes int64, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.LimitBody(maxUploadBytes))

	// Routes
	r.Get("/health", handlers.Health.HealthCheck)
	r.Handle("/static/*", views.Static())
	r.Get(domain.PlaceholderImageURL, views.Placeholder())
	if handlers.Avatars != nil {
		r.Handle("/customers/*", handlers.Avatars)
	}

	r.Get("/login", handlers.Auth.LoginPage)
	r.Post("/login", handlers.Auth.Login)
	r.Post("/logout", handlers.Auth.Logout)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireSession(handlers.Sessions))

		r.Get("/", handlers.Auth.Dashboard)

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", handlers.Invoice.List)
			r.Get("/create", handlers.Invoice.CreateForm)
			r.Post("/", handlers.Invoice.Create)
			r.Get("/{id}/edit", handlers.Invoice.EditForm)
			r.Post("/{id}", handlers.Invoice.Update)
			r.Post("/{id}/delete", handlers.Invoice.Delete)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", handlers.Customer.List)
			r.Get("/create", handlers.Customer.CreateForm)
			r.Post("/", handlers.Customer.Create)
			r.Get("/{id}/edit", handlers.Customer.EditForm)
			r.Post("/{id}", handlers.Customer.Update)
			r.Post("/{id}/delete", handlers.Customer.Delete)
		})
	})

	return r
}
