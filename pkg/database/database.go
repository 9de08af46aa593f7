// Package database owns the SQL connection, the query interface the
// repositories depend on, and schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Ramsey-B/juniper/config"
)

// DB is the query surface repositories use. *sqlx.DB satisfies it; tests
// substitute fakes.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// ConnectionString builds a postgres DSN from config.
func ConnectionString(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName,
		cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)
}

// Connect opens the database with retries and applies pool settings.
func Connect(cfg config.Config, logger ectologger.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	attempts := cfg.DatabaseReconnectRetryCount
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		db, err = sqlx.Connect(cfg.DatabaseDriver, ConnectionString(cfg))
		if err == nil {
			break
		}
		logger.WithError(err).WithFields(map[string]any{"attempt": i}).Warn("Database connection failed")
		time.Sleep(time.Duration(i) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return db, nil
}

// Migrate applies schema migrations from the configured folder. A zero
// migration version means "latest".
func Migrate(cfg config.Config, logger ectologger.Logger) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DatabaseUserName, cfg.DatabasePassword, cfg.DatabaseHost,
		cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)

	m, err := migrate.New("file://"+cfg.DatabaseMigrationFolderPath, dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if cfg.DatabaseMigrationForce > 0 {
		if err := m.Force(cfg.DatabaseMigrationForce); err != nil {
			return fmt.Errorf("failed to force migration version %d: %w", cfg.DatabaseMigrationForce, err)
		}
	}

	if cfg.DatabaseMigrationVersion > 0 {
		err = m.Migrate(uint(cfg.DatabaseMigrationVersion))
	} else {
		err = m.Up()
	}

	if err != nil && err != migrate.ErrNoChange {
		if cfg.DatabaseMigrationAutoRollback {
			logger.WithError(err).Error("Migration failed, rolling back")
			if downErr := m.Down(); downErr != nil && downErr != migrate.ErrNoChange {
				logger.WithError(downErr).Error("Rollback failed")
			}
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations applied")
	return nil
}
