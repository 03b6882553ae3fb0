package storage

import (
	"testing"

	"github.com/gigmile/dashboard-service/internal/config"
	"github.com/gigmile/dashboard-service/internal/infrastructure/storage/httpblob"
	"github.com/gigmile/dashboard-service/internal/infrastructure/storage/localfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	store, handler, err := New(config.BlobConfig{Driver: "local", StorageDir: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &localfs.Store{}, store)
	assert.NotNil(t, handler)

	store, handler, err = New(config.BlobConfig{Driver: "http", Endpoint: "https://blob.example.com", Token: "t"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &httpblob.Client{}, store)
	assert.Nil(t, handler)

	_, _, err = New(config.BlobConfig{Driver: "http"}, logger)
	assert.ErrorIs(t, err, httpblob.ErrMissingEndpoint)

	_, _, err = New(config.BlobConfig{Driver: "s3"}, logger)
	assert.Error(t, err)
}
