// Package testutil opens throwaway databases for repository and HTTP tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/Behyna/bank-webhooks/pkg/database"
)

// NewDB returns a migrated SQLite database in the test's temp dir. The pool is
// capped at one connection, so code under test must route every query inside
// a transaction through repository.GetTx.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(sqlite.Open(dsn), "silent", zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
