package handler

import (
	"net/http"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/interface/http/dto"
	"github.com/gigmile/dashboard-service/internal/interface/http/session"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	pages       *pageWriter
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager, pages *pageWriter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		pages:       pages,
		logger:      logger,
	}
}

// LoginPage shows the sign in form, or skips it for signed in users
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Read(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	form := &dto.LoginForm{RedirectTo: r.URL.Query().Get("redirectTo")}
	h.renderLogin(w, r, http.StatusOK, form, nil)
}

// Login checks the credentials and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := dto.ParseLoginForm(r)
	if err != nil {
		h.pages.errorPage(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	if err := form.Validate(); err != nil {
		state := invalidState(err, "Sign In")
		state.Message = service.MsgInvalidCredentials
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, state)
		return
	}

	user, state := h.authService.Authenticate(r.Context(), form.Email, form.Password)
	if user == nil {
		status := http.StatusUnauthorized
		if state.Message == service.MsgSomethingWentWrong {
			status = http.StatusInternalServerError
		}
		h.renderLogin(w, r, status, form, state)
		return
	}

	h.sessions.Issue(w, user.ID, user.Name, user.Email)
	http.Redirect(w, r, form.SafeRedirect(), http.StatusSeeOther)
}

// Logout drops the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Dashboard is the landing page after sign in
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard/invoices", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form *dto.LoginForm, state *service.ActionState) {
	data := h.pages.data(r, "Login")
	data["Email"] = form.Email
	data["RedirectTo"] = form.RedirectTo
	if state != nil {
		data["Message"] = state.Message
		if state.Errors != nil {
			data["Errors"] = state.Errors
		}
	}
	h.pages.render(w, r, status, "login", data)
}
