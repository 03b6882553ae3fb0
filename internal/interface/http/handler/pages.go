package handler

import (
	"context"
	"net/http"

	"github.com/gigmile/dashboard-service/internal/infrastructure/cache"
	"github.com/gigmile/dashboard-service/internal/interface/http/session"
	"github.com/gigmile/dashboard-service/internal/interface/http/views"
	"go.uber.org/zap"
)

type pageWriter struct {
	views  *views.Renderer
	logger *zap.Logger
}

// data returns the keys every page template reads.
func (p *pageWriter) data(r *http.Request, title string) map[string]any {
	user := ""
	if claims := session.FromContext(r.Context()); claims != nil {
		user = claims.Name
		if user == "" {
			user = claims.Email
		}
	}
	return map[string]any{
		"Title":   title,
		"User":    user,
		"Flash":   "",
		"Message": "",
		"Errors":  map[string][]string{},
	}
}

func (p *pageWriter) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := p.views.Page(w, status, name, data); err != nil {
		p.logger.Error("failed to render page",
			zap.Error(err),
			zap.String("template", name),
			zap.String("path", r.URL.Path),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (p *pageWriter) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := p.data(r, http.StatusText(status))
	data["Status"] = status
	data["Message"] = message
	p.render(w, r, status, "error", data)
}

// cachedFragment serves a listing fragment from the view cache, rendering
// and storing it on a miss. Cache failures fall back to rendering.
func (p *pageWriter) cachedFragment(
	ctx context.Context,
	viewCache cache.ViewCache,
	path, variant, name string,
	load func(context.Context) (map[string]any, error),
) ([]byte, error) {
	if viewCache != nil {
		body, ok, err := viewCache.Get(ctx, path, variant)
		if err != nil {
			p.logger.Warn("view cache read failed", zap.Error(err), zap.String("path", path))
		} else if ok {
			p.logger.Debug("view cache hit", zap.String("path", path), zap.String("variant", variant))
			return body, nil
		}
	}

	data, err := load(ctx)
	if err != nil {
		return nil, err
	}
	body, err := p.views.Fragment(name, data)
	if err != nil {
		return nil, err
	}

	if viewCache != nil {
		if err := viewCache.Set(ctx, path, variant, body); err != nil {
			p.logger.Warn("view cache write failed", zap.Error(err), zap.String("path", path))
		}
	}
	return body, nil
}
