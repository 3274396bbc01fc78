package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSchemaMissing is reported by health checks when the documents table has
// not been created by the migrations.
var ErrSchemaMissing = errors.New("documents table missing, run migrations")

const applicationName = "chatcore"

var (
	parsePGConfig = pgxpool.ParseConfig
	newPGPool     = pgxpool.NewWithConfig
	pingPGPool    = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
	closePGPool   = func(pool *pgxpool.Pool) { pool.Close() }

	// pgDocumentsTable returns the resolved name of the documents table, or
	// nil when it does not exist.
	pgDocumentsTable = func(ctx context.Context, pool *pgxpool.Pool) (*string, error) {
		var name *string
		err := pool.QueryRow(ctx, "SELECT to_regclass('documents')::text").Scan(&name)
		return name, err
	}
)

type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB opens a pool sized for the document store. Every write
// holds a row lock on one document, so a small pool is enough.
func NewPostgresDB(dsn string) (*PostgresDB, error) {
	config, err := parsePGConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 15 * time.Minute
	config.HealthCheckPeriod = time.Minute
	if config.ConnConfig != nil {
		if config.ConnConfig.RuntimeParams == nil {
			config.ConnConfig.RuntimeParams = map[string]string{}
		}
		if config.ConnConfig.RuntimeParams["application_name"] == "" {
			config.ConnConfig.RuntimeParams["application_name"] = applicationName
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := newPGPool(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pingPGPool(ctx, pool); err != nil {
		closePGPool(pool)
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		closePGPool(db.Pool)
	}
}

// Health pings the server and checks that the documents table exists.
func (db *PostgresDB) Health(ctx context.Context) error {
	if err := pingPGPool(ctx, db.Pool); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	name, err := pgDocumentsTable(ctx, db.Pool)
	if err != nil {
		return fmt.Errorf("checking documents table: %w", err)
	}
	if name == nil {
		return ErrSchemaMissing
	}
	return nil
}
