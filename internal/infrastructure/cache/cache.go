package cache

import (
	"context"

	"github.com/gigmile/dashboard-service/internal/domain"
)

// ViewCache stores rendered listing fragments keyed by path and variant
// (the raw query string). Revalidating a path drops every variant at once.
type ViewCache interface {
	Get(ctx context.Context, path, variant string) ([]byte, bool, error)
	Set(ctx context.Context, path, variant string, body []byte) error
	domain.PathRevalidator
}
