// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package storage keeps participants and match suggestions in a relational
// database through gorm. sqlite and postgres are supported.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"

	slowQueryThreshold = 500 * time.Millisecond
)

var sqlitePragmas = []string{
	"pragma journal_mode=WAL;",
	"pragma synchronous = normal;",
	"pragma temp_store = memory;",
	"pragma foreign_keys = ON;",
}

// Store implements the participant source and suggestion sink of the
// formation service, plus the answers participants give to suggestions.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to databaseType at dsn. For sqlite dsn is a file path whose
// parent directory is created when missing.
func Open(ctx context.Context, databaseType string, dsn string, log *logrus.Logger) (*Store, error) {
	gormConfig := &gorm.Config{
		Logger: newGormLogger(log, slowQueryThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch databaseType {
	case TypeSQLite:
		if parent := filepath.Dir(dsn); parent != "" {
			if err = os.MkdirAll(parent, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		if db, err = gorm.Open(sqlite.Open(dsn), gormConfig); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, dbErr
		}
		// sqlite serializes writers anyway, one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		for _, pragma := range sqlitePragmas {
			if err = db.WithContext(ctx).Exec(pragma).Error; err != nil {
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	case TypePostgres:
		if db, err = gorm.Open(postgres.Open(dsn), gormConfig); err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s (must be %q or %q)", databaseType, TypeSQLite, TypePostgres)
	}

	log.WithFields(logrus.Fields{"databaseType": databaseType}).Info("database opened")
	return New(db), nil
}

// Migrate creates or updates the tables in a single transaction.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Migrator().AutoMigrate(&models.Participant{}, &models.MatchSuggestion{})
	})
}

// Ping checks the connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
