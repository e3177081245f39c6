// Package sqlitetest opens throwaway in-memory databases carrying the production schema.
package sqlitetest

import (
	"testing"

	mmysql "pharmacy-service/internal/infra/mysql"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory database that is closed when t finishes. It keeps a
// single connection, so transactions run one after another.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := mmysql.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := mmysql.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
