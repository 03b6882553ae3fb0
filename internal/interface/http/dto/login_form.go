package dto

import (
	"net/http"
	"strings"
)

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	// RedirectTo is where to land after signing in.
	RedirectTo string `form:"redirectTo" validate:"-"`
}

var loginMessages = map[string]string{
	"email":    "Please enter a valid email address.",
	"password": "Password must be at least 6 characters.",
}

func ParseLoginForm(r *http.Request) (*LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &LoginForm{
		Email:      strings.TrimSpace(r.PostFormValue("email")),
		Password:   r.PostFormValue("password"),
		RedirectTo: r.PostFormValue("redirectTo"),
	}, nil
}

func (f *LoginForm) Validate() error {
	return check(f, loginMessages).orNil()
}

// SafeRedirect only honours local dashboard paths.
func (f *LoginForm) SafeRedirect() string {
	if strings.HasPrefix(f.RedirectTo, "/dashboard") && !strings.HasPrefix(f.RedirectTo, "//") {
		return f.RedirectTo
	}
	return "/dashboard"
}
