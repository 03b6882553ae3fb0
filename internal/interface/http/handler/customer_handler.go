package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/cache"
	"github.com/gigmile/dashboard-service/internal/interface/http/dto"
	"github.com/gigmile/dashboard-service/internal/interface/http/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	viewCache       cache.ViewCache
	pages           *pageWriter
	maxUploadBytes  int64
	logger          *zap.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, viewCache cache.ViewCache, pages *pageWriter, maxUploadBytes int64, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		viewCache:       viewCache,
		pages:           pages,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// List shows customers with their invoice totals
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, session.PopFlash(w, r))
}

func (h *CustomerHandler) renderList(w http.ResponseWriter, r *http.Request, status int, flash string) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))

	variant := url.Values{"query": {query}}.Encode()
	table, err := h.pages.cachedFragment(r.Context(), h.viewCache, domain.CustomersPath, variant, "customers_table",
		func(ctx context.Context) (map[string]any, error) {
			customers, err := h.customerService.ListCustomers(ctx, query)
			if err != nil {
				return nil, err
			}
			return map[string]any{"Query": query, "Customers": customers}, nil
		})
	if err != nil {
		h.logger.Error("failed to render customers table", zap.Error(err))
		h.pages.errorPage(w, r, http.StatusInternalServerError, "Failed to fetch customers.")
		return
	}

	data := h.pages.data(r, "Customers")
	data["Query"] = query
	data["Table"] = table
	data["Flash"] = flash
	h.pages.render(w, r, status, "customers", data)
}

// CreateForm shows an empty customer form
func (h *CustomerHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", &dto.CustomerForm{}, "", nil)
}

// Create handles the multipart create customer form
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, state := h.parse(r, "Create Customer")
	if state != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", form, "", state)
		return
	}

	input, closeImage, err := h.input(form)
	if err != nil {
		h.logger.Error("failed to open uploaded image", zap.Error(err))
		h.renderForm(w, r, http.StatusInternalServerError, "", form, "", &service.ActionState{Message: service.MsgCreateCustomerFailed})
		return
	}
	defer closeImage()

	state = h.customerService.CreateCustomer(r.Context(), input)
	if state.Succeeded() {
		http.Redirect(w, r, state.Redirect, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, http.StatusInternalServerError, "", form, "", state)
}

// EditForm shows the customer form prefilled from the stored customer
func (h *CustomerHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	customer, err := h.customerService.GetCustomer(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.pages.errorPage(w, r, http.StatusNotFound, "Could not find the requested customer.")
			return
		}
		h.pages.errorPage(w, r, http.StatusInternalServerError, "Failed to fetch customer.")
		return
	}

	form := &dto.CustomerForm{Name: customer.Name, Email: customer.Email}
	h.renderForm(w, r, http.StatusOK, customerID, form, customer.ImageURL, nil)
}

// Update handles the multipart edit customer form
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	form, state := h.parse(r, "Update Customer")
	if state != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, customerID, form, "", state)
		return
	}

	input, closeImage, err := h.input(form)
	if err != nil {
		h.logger.Error("failed to open uploaded image", zap.Error(err), zap.String("customer_id", customerID))
		h.renderForm(w, r, http.StatusInternalServerError, customerID, form, "", &service.ActionState{Message: service.MsgUpdateCustomerFailed})
		return
	}
	defer closeImage()

	state = h.customerService.UpdateCustomer(r.Context(), customerID, input)
	if state.Succeeded() {
		http.Redirect(w, r, state.Redirect, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, http.StatusInternalServerError, customerID, form, "", state)
}

// Delete removes a customer, its invoices and its image
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	state := h.customerService.DeleteCustomer(r.Context(), customerID)
	if state.Succeeded() {
		session.SetFlash(w, state.Message)
		http.Redirect(w, r, state.Redirect, http.StatusSeeOther)
		return
	}
	h.renderList(w, r, http.StatusInternalServerError, state.Message)
}

// parse reads and validates the form. A non-nil state means it was rejected.
func (h *CustomerHandler) parse(r *http.Request, action string) (*dto.CustomerForm, *service.ActionState) {
	form, err := dto.ParseCustomerForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &dto.CustomerForm{}, &service.ActionState{
				Message: dto.MissingFieldsMessage(action),
				Errors:  map[string][]string{"image": {dto.ImageTooLargeMessage(h.maxUploadBytes)}},
			}
		}
		return &dto.CustomerForm{}, &service.ActionState{Message: "Invalid form submission. Failed to " + action + "."}
	}

	if err := form.Validate(h.maxUploadBytes); err != nil {
		return form, invalidState(err, action)
	}
	return form, nil
}

func (h *CustomerHandler) input(form *dto.CustomerForm) (service.CustomerInput, func(), error) {
	input := service.CustomerInput{Name: form.Name, Email: form.Email}
	if form.Image == nil {
		return input, func() {}, nil
	}

	file, err := form.Image.Open()
	if err != nil {
		return input, func() {}, err
	}
	input.Image = &service.ImageUpload{
		Filename:    form.Image.Filename,
		ContentType: form.ContentType,
		Body:        file,
	}
	return input, func() { file.Close() }, nil
}

func (h *CustomerHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, customerID string, form *dto.CustomerForm, imageURL string, state *service.ActionState) {
	title, action, submit := "Create Customer", domain.CustomersPath, "Create Customer"
	if customerID != "" {
		title, action, submit = "Edit Customer", domain.CustomersPath+"/"+url.PathEscape(customerID), "Edit Customer"
	}

	data := h.pages.data(r, title)
	data["Action"] = action
	data["Submit"] = submit
	data["Name"] = form.Name
	data["Email"] = form.Email
	data["ImageURL"] = imageURL
	if state != nil {
		data["Message"] = state.Message
		if state.Errors != nil {
			data["Errors"] = state.Errors
		}
	}
	h.pages.render(w, r, status, "customer_form", data)
}
