package models

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/coastwise/enctiler/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// InitDB opens the PostGIS store and tunes the shared connection pool from
// configuration. The pool is constructed once at process start and injected
// into job execution; Close drains it at shutdown.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	cfg := &config.MainConfig
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxIdleTime(cfg.IdleTimeoutDuration())
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AcquireTimeoutDuration())
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	DB = db
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to fetch sql.DB for close: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}

// AcquireConn converts pool exhaustion into an error after a bounded wait
// instead of letting a chart job block indefinitely. The connection is
// returned to the pool immediately; the caller's transaction will reuse it.
func AcquireConn(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := sqlDB.Conn(waitCtx)
	if err != nil {
		return fmt.Errorf("connection pool exhausted after %s: %w", timeout, err)
	}
	return conn.Close()
}
