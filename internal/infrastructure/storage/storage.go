package storage

import (
	"fmt"
	"net/http"

	"github.com/gigmile/dashboard-service/internal/config"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/storage/httpblob"
	"github.com/gigmile/dashboard-service/internal/infrastructure/storage/localfs"
	"go.uber.org/zap"
)

// New builds the configured blob store. The returned handler serves stored
// files and is nil when the store hosts them itself.
func New(cfg config.BlobConfig, logger *zap.Logger) (domain.BlobStore, http.Handler, error) {
	switch cfg.Driver {
	case "local":
		store, err := localfs.New(cfg.StorageDir, cfg.PublicBaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Handler(), nil
	case "http":
		client, err := httpblob.New(cfg.Endpoint, cfg.Token, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}
