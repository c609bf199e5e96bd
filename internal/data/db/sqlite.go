package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

const DefaultFileName = "mestudydb.sqlite3"

type Options struct {
	// Path of the database file. Parent directories are created on open.
	Path        string
	BusyTimeout time.Duration
	LogLevel    gormLogger.LogLevel
}

type SQLiteService struct {
	db   *gorm.DB
	log  *logger.Logger
	path string
}

// NewSQLiteService opens the database file on a single connection with
// foreign-key enforcement switched on.
func NewSQLiteService(logg *logger.Logger, opts Options) (*SQLiteService, error) {
	serviceLog := logg.With("service", "SQLiteService")

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, fmt.Errorf("missing database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	level := opts.LogLevel
	if level == 0 {
		level = gormLogger.Warn
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := fmt.Sprintf("%s?_foreign_keys=1&_busy_timeout=%d", path, busy.Milliseconds())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	var fk int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil || fk != 1 {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("foreign keys not enforced (value=%d): %v", fk, err)
	}

	serviceLog.Debug("sqlite opened", "path", path)
	return &SQLiteService{db: db, log: serviceLog, path: path}, nil
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }

func (s *SQLiteService) Path() string { return s.path }

func (s *SQLiteService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureStudyIndexes(s.db); err != nil {
		s.log.Error("Study index migration failed", "error", err)
		return err
	}
	return nil
}
