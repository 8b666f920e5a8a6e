package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	// DriverSQLite stores everything in a local sqlite file
	DriverSQLite = "sqlite"

	// DriverMySQL connects to a MySQL server using DSN
	DriverMySQL = "mysql"
)

// WAL lets the sweep read while a join is being written; busy_timeout covers
// the remaining writer contention.
const sqliteConnOpts = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Config holds configuration for the SQL store
type Config struct {
	// Driver is DriverSQLite or DriverMySQL
	Driver string

	// Path is the sqlite database file
	Path string

	// DSN is the MySQL data source name
	DSN string
}

// Open opens the gorm handle shared by the SQL repositories
func Open(cfg *Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		if cfg.Path == "" {
			return nil, errors.New("sqlite path cannot be empty")
		}
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database dir: %w", err)
			}
		}
		return openSQLite(fmt.Sprintf("file:%s?%s", cfg.Path, sqliteConnOpts))

	case DriverMySQL:
		if cfg.DSN == "" {
			return nil, errors.New("mysql dsn cannot be empty")
		}
		db, err := gorm.Open(mysql.New(mysql.Config{
			DSN:                       cfg.DSN,
			DefaultStringSize:         256,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open mysql: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenMemory opens a private in-memory sqlite database. Each call gets its own
// database so tests never share state.
func OpenMemory() (*gorm.DB, error) {
	return openSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

func openSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
