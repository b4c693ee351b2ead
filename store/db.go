package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps gorm.DB with metadata.
type DB struct {
	*gorm.DB
	Path string
}

// Open opens the sqlite database at path. Debug turns on SQL logging.
func Open(path string, debug bool) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		path = "googleauth.db"
	}
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &DB{DB: db, Path: path}, nil
}

func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return wrapDB(err)
	}
	return wrapDB(sqlDB.PingContext(ctx))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

func wrapDB(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Wrap(err, apperr.ErrDatabase, "")
}
