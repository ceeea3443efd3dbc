// Package dbtest opens throwaway databases for repository and checkout tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/arenashop/storefront/database"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory SQLite database with foreign keys enforced.
// It is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	log := zaptest.NewLogger(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), database.GormConfig(log, time.Second))
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Seeded is Open with the sample catalog loaded.
func Seeded(t testing.TB) *gorm.DB {
	t.Helper()

	db := Open(t)
	require.NoError(t, database.SeedData(db, zaptest.NewLogger(t)))
	return db
}
