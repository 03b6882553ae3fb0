package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$19.99", FormatCurrency(1999))
	assert.Equal(t, "$1,234.56", FormatCurrency(123456))
	assert.Equal(t, "$1,000,000.00", FormatCurrency(100000000))
	assert.Equal(t, "-$5.05", FormatCurrency(-505))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 9, 2024", FormatDate("2024-03-09"))
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
}

func TestPages(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Pages(1, 3))
	assert.Equal(t, []int{1, 2, 3, 0, 9, 10}, Pages(2, 10))
	assert.Equal(t, []int{1, 2, 0, 8, 9, 10}, Pages(9, 10))
	assert.Equal(t, []int{1, 0, 4, 5, 6, 0, 10}, Pages(5, 10))
	assert.Empty(t, Pages(1, 0))
}

func TestRenderer_InvoicesTable(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	body, err := r.Fragment("invoices_table", map[string]any{
		"Query": "amy",
		"Page": &service.InvoicePage{
			Items: []*domain.InvoiceListItem{{
				Invoice:       domain.Invoice{ID: "inv-1", Amount: 123456, Status: domain.InvoiceStatusPaid, Date: "2024-03-09"},
				CustomerName:  "Amy <Burns>",
				CustomerEmail: "amy@burns.com",
				ImageURL:      "/customers/amy-0a1b2c3d.png",
			}},
			Page:       1,
			TotalPages: 2,
		},
	})
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "$1,234.56")
	assert.Contains(t, html, "Mar 9, 2024")
	assert.Contains(t, html, "Amy &lt;Burns&gt;")
	assert.Contains(t, html, "/dashboard/invoices/inv-1/edit")
	assert.Contains(t, html, "page=2")
}

func TestRenderer_PageWithoutOptionalKeys(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Page(rec, http.StatusUnprocessableEntity, "login", map[string]any{
		"Message": "Invalid credentials.",
		"Errors":  map[string][]string{"password": {"Password must be at least 6 characters."}},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters.")
	assert.False(t, strings.Contains(rec.Body.String(), "Sign Out"))
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".sidenav")
}

func TestPlaceholder(t *testing.T) {
	rec := httptest.NewRecorder()
	Placeholder().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, domain.PlaceholderImageURL, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}
