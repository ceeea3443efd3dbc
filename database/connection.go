package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arenashop/storefront/config"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormConfig is the gorm configuration shared by every connection the service opens.
func GormConfig(log *zap.Logger, slowQuery time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger:         NewGormLogger(log, slowQuery),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), GormConfig(log, cfg.SlowQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	log.Info("database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
		zap.String("schema", cfg.Schema))
	return db, nil
}

// DSN is the connection string for cfg. The schema goes in as a search_path
// startup parameter so every pooled connection resolves tables the same way.
func DSN(cfg *config.DatabaseConfig) string {
	dsn := cfg.GetDSN()
	if cfg.Schema != "" {
		dsn += " search_path=" + quoteDSNValue(pq.QuoteIdentifier(cfg.Schema))
	}
	return dsn
}

var dsnValueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSNValue(v string) string {
	return "'" + dsnValueEscaper.Replace(v) + "'"
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
