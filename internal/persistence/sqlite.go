package persistence

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLite wraps a gorm handle over a local SQLite file.
type SQLite struct {
	DB *gorm.DB
}

// NewSQLite opens dsn and creates the schema for models when missing.
func NewSQLite(dsn string, logger *zap.Logger, models ...any) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}

	logger.Info("opened sqlite store", zap.String("dsn", dsn))
	return &SQLite{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() {
	if s == nil || s.DB == nil {
		return
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Ping verifies the database file is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite not configured")
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
