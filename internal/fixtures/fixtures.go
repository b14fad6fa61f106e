// Package fixtures provides the shared test database. Tests run against an
// in-memory sqlite store migrated to the full schema; the pool is capped at a
// single connection, which both keeps the memory database alive and gives
// sqlite's single-writer model teeth in concurrency tests.
package fixtures

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infrarepo "github.com/mkhalaf/bankcore/infra/repository"
)

// NewTestDB opens a fresh in-memory database migrated to the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(infrarepo.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
