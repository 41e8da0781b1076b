// Package dbtest opens throwaway sqlite databases carrying the application schema.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stickerdash/stickerdash-backend/pkg/db"
	"github.com/stickerdash/stickerdash-backend/pkg/migrate"
)

// Open returns an isolated in-memory database with foreign keys enforced and
// every model migrated.
func Open(t *testing.T) *db.Client {
	t.Helper()
	dsn := "file:stickerdash_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate.AutoMigrateModels(conn); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db.NewFromGorm(conn)
}
