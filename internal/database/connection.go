package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// DB is the subset of sqlx the storage table needs
type DB interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	Ping() error
	Close() error
}

// PostgresDB implements DB on a pooled sqlx connection
type PostgresDB struct {
	*sqlx.DB
}

// maskPassword masks the password in a database URL for safe logging
func maskPassword(url string) string {
	re := regexp.MustCompile(`(postgres(?:ql)?://[^:]+:)([^@]+)(@.+)`)
	return re.ReplaceAllString(url, "${1}****${3}")
}

// NewConnection creates a new database connection
func NewConnection(cfg config.DatabaseConfig, logger *logrus.Logger) (DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	connectionURL := cfg.URL
	logger.Infof("Database URL: %s", maskPassword(connectionURL))

	// Transaction-mode poolers (pgbouncer, supavisor on 6543) reject prepared statements
	usingPooler := strings.Contains(connectionURL, ":6543") || strings.Contains(connectionURL, "pgbouncer=true")

	pgxConfig, err := pgx.ParseConfig(connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if usingPooler {
		pgxConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		logger.Info("Connection pooler detected, using simple query protocol")
	}

	connStr := stdlib.RegisterConnConfig(pgxConfig)

	db, err := sqlx.Connect("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxLifetime / 2)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{DB: db}, nil
}
