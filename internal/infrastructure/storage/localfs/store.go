package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

var ErrInvalidKey = errors.New("invalid blob key")

// Store keeps blobs on the local filesystem under root and serves them
// from publicBaseURL + "/" + key.
type Store struct {
	root          string
	publicBaseURL string
	logger        *zap.Logger
}

func New(root, publicBaseURL string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Store{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	target, err := s.pathFor(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob dir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}

	written, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	s.logger.Debug("blob stored",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("bytes", written),
	)

	return s.publicBaseURL + "/" + key, nil
}

func (s *Store) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.publicBaseURL)
	key = strings.TrimPrefix(key, "/")

	target, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Debug("blob deleted", zap.String("key", key))
	return nil
}

// Handler serves stored blobs at the URLs Put returns.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(s.publicBaseURL, http.FileServer(http.Dir(s.root)))
}

func (s *Store) pathFor(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean != "/"+key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
