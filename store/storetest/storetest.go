// Package storetest opens an in-memory SQLite store for tests.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourusername/helm-collect/config"
	"github.com/yourusername/helm-collect/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated store backed by a private in-memory database with
// foreign keys enforced. The single connection keeps the database alive for
// the lifetime of the test.
func New(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return store.New(db)
}
