package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the stylesheet under /static/.
func Static() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Placeholder serves the avatar shown for customers without an upload.
func Placeholder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "static/default.png")
	}
}

// Renderer executes the embedded page and fragment templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("views").Funcs(Funcs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes a full HTML page with the given status code.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data map[string]any) error {
	body, err := r.Fragment(name, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// Fragment renders a template into memory, for caching or embedding.
func (r *Renderer) Fragment(name string, data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"currency": FormatCurrency,
		"dollars":  func(cents int64) string { return fmt.Sprintf("%.2f", domain.CentsToDollars(cents)) },
		"date":     FormatDate,
		"pages":    Pages,
		"errs": func(errs any, field string) []string {
			m, _ := errs.(map[string][]string)
			return m[field]
		},
		"img": func(u string) string {
			s := strings.TrimSpace(u)
			if s == "" {
				return domain.PlaceholderImageURL
			}
			return strings.ReplaceAll(s, " ", "%20")
		},
		// raw embeds an already escaped fragment
		"raw": func(b []byte) template.HTML { return template.HTML(b) },
	}
}

// FormatCurrency renders cents as US dollars: 123456 -> $1,234.56
func FormatCurrency(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := fmt.Sprintf("$%s.%02d", b.String(), cents%100)
	if neg {
		return "-" + out
	}
	return out
}

// FormatDate renders a stored YYYY-MM-DD date as "Mar 9, 2024".
func FormatDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// Pages lists the page numbers to link, with 0 standing for an ellipsis.
func Pages(current, total int) []int {
	if total <= 7 {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
	switch {
	case current <= 3:
		return []int{1, 2, 3, 0, total - 1, total}
	case current >= total-2:
		return []int{1, 2, 0, total - 2, total - 1, total}
	default:
		return []int{1, 0, current - 1, current, current + 1, 0, total}
	}
}
