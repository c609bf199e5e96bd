package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mestudy/mestudy-core/internal/data/db"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Logger is silent unless MESTUDY_TEST_LOG is set, then it logs in development mode.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	if os.Getenv("MESTUDY_TEST_LOG") == "" {
		return logger.Nop()
	}
	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	tb.Cleanup(log.Sync)
	return log
}

// DB opens a migrated study database private to tb.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return Service(tb).DB()
}

// Service returns the owning service for tests that need Close or the file path.
func Service(tb testing.TB) *db.SQLiteService {
	tb.Helper()
	level := gormLogger.Silent
	if os.Getenv("MESTUDY_TEST_LOG") != "" {
		level = gormLogger.Info
	}
	svc, err := db.NewSQLiteService(Logger(tb), db.Options{
		Path:     filepath.Join(tb.TempDir(), db.DefaultFileName),
		LogLevel: level,
	})
	if err != nil {
		tb.Fatalf("open study db: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	if err := svc.AutoMigrateAll(); err != nil {
		tb.Fatalf("migrate study db: %v", err)
	}
	return svc
}

// Tx starts a transaction rolled back at cleanup. The database has one
// connection, so the test must issue every statement through the returned tx.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if err := tx.Error; err != nil {
		tb.Fatalf("begin: %v", err)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
