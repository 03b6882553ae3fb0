package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/cache"
	"github.com/gigmile/dashboard-service/internal/interface/http/dto"
	"github.com/gigmile/dashboard-service/internal/interface/http/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	viewCache      cache.ViewCache
	pages          *pageWriter
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, viewCache cache.ViewCache, pages *pageWriter, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		viewCache:      viewCache,
		pages:          pages,
		logger:         logger,
	}
}

// List shows the searchable, paginated invoices table
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, session.PopFlash(w, r))
}

func (h *InvoiceHandler) renderList(w http.ResponseWriter, r *http.Request, status int, flash string) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	variant := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}.Encode()
	table, err := h.pages.cachedFragment(r.Context(), h.viewCache, domain.InvoicesPath, variant, "invoices_table",
		func(ctx context.Context) (map[string]any, error) {
			result, err := h.invoiceService.ListInvoices(ctx, query, page)
			if err != nil {
				return nil, err
			}
			return map[string]any{"Query": query, "Page": result}, nil
		})
	if err != nil {
		h.logger.Error("failed to render invoices table", zap.Error(err))
		h.pages.errorPage(w, r, http.StatusInternalServerError, "Failed to fetch invoices.")
		return
	}

	data := h.pages.data(r, "Invoices")
	data["Query"] = query
	data["Table"] = table
	data["Flash"] = flash
	h.pages.render(w, r, status, "invoices", data)
}

// CreateForm shows an empty invoice form
func (h *InvoiceHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", &dto.InvoiceForm{}, nil)
}

// Create handles the create invoice form submission
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := dto.ParseInvoiceForm(r)
	if err != nil {
		h.pages.errorPage(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	if err := form.Validate(); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", form, invalidState(err, "Create Invoice"))
		return
	}

	state := h.invoiceService.CreateInvoice(r.Context(), service.InvoiceInput{
		CustomerID:  form.CustomerID,
		AmountCents: form.AmountCents(),
		Status:      form.InvoiceStatus(),
	})
	if state.Succeeded() {
		http.Redirect(w, r, state.Redirect, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, http.StatusInternalServerError, "", form, state)
}

// EditForm shows the invoice form prefilled from the stored invoice
func (h *InvoiceHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")

	invoice, err := h.invoiceService.GetInvoice(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			h.pages.errorPage(w, r, http.StatusNotFound, "Could not find the requested invoice.")
			return
		}
		h.pages.errorPage(w, r, http.StatusInternalServerError, "Failed to fetch invoice.")
		return
	}

	form := &dto.InvoiceForm{
		CustomerID: invoice.CustomerID,
		Amount:     domain.CentsToDollars(invoice.Amount),
		AmountRaw:  strconv.FormatFloat(domain.CentsToDollars(invoice.Amount), 'f', 2, 64),
		Status:     string(invoice.Status),
	}
	h.renderForm(w, r, http.StatusOK, invoiceID, form, nil)
}

// Update handles the edit invoice form submission
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")

	form, err := dto.ParseInvoiceForm(r)
	if err != nil {
		h.pages.errorPage(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	if err := form.Validate(); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, invoiceID, form, invalidState(err, "Update Invoice"))
		return
	}

	state := h.invoiceService.UpdateInvoice(r.Context(), invoiceID, service.InvoiceInput{
		CustomerID:  form.CustomerID,
		AmountCents: form.AmountCents(),
		Status:      form.InvoiceStatus(),
	})
	if state.Succeeded() {
		http.Redirect(w, r, state.Redirect, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, http.StatusInternalServerError, invoiceID, form, state)
}

// Delete removes an invoice and returns to the listing
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")

	state := h.invoiceService.DeleteInvoice(r.Context(), invoiceID)
	if state.Succeeded() {
		session.SetFlash(w, state.Message)
		http.Redirect(w, r, state.Redirect, http.StatusSeeOther)
		return
	}
	h.renderList(w, r, http.StatusInternalServerError, state.Message)
}

// renderForm serves both create (empty invoiceID) and edit.
func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, invoiceID string, form *dto.InvoiceForm, state *service.ActionState) {
	customers, err := h.invoiceService.CustomerOptions(r.Context())
	if err != nil {
		h.pages.errorPage(w, r, http.StatusInternalServerError, "Failed to fetch customers.")
		return
	}

	title, action, submit := "Create Invoice", domain.InvoicesPath, "Create Invoice"
	if invoiceID != "" {
		title, action, submit = "Edit Invoice", domain.InvoicesPath+"/"+url.PathEscape(invoiceID), "Edit Invoice"
	}

	data := h.pages.data(r, title)
	data["Action"] = action
	data["Submit"] = submit
	data["Customers"] = customers
	data["CustomerID"] = form.CustomerID
	data["Amount"] = form.AmountRaw
	data["Status"] = form.Status
	if state != nil {
		data["Message"] = state.Message
		if state.Errors != nil {
			data["Errors"] = state.Errors
		}
	}
	h.pages.render(w, r, status, "invoice_form", data)
}

// invalidState turns a validation failure into the state re-rendered with the form.
func invalidState(err error, action string) *service.ActionState {
	state := &service.ActionState{Message: dto.MissingFieldsMessage(action)}
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		state.Errors = verr.Fields
	}
	return state
}
