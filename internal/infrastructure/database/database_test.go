package database

import (
	"context"
	"testing"

	"github.com/gigmile/dashboard-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.MySQLConfig{
		Host:     "db:3306",
		User:     "dash",
		Password: "secret",
		Database: "dashboard",
	})

	assert.Equal(t, "dash:secret@tcp(db:3306)/dashboard?parseTime=true&loc=Local", dsn)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
