// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/configd/internal/model"
	"github.com/groblegark/configd/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping verifies connectivity for the healthcheck endpoint.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) InsertConfig(ctx context.Context, service string, version int, payload json.RawMessage) (int64, error) {
	return queryInsertConfig(ctx, s.db, service, version, payload)
}

func (s *PostgresStore) MaxVersion(ctx context.Context, service string) (int, bool, error) {
	return queryMaxVersion(ctx, s.db, service)
}

func (s *PostgresStore) GetConfig(ctx context.Context, service string, version int) (*model.Configuration, error) {
	return queryGetConfig(ctx, s.db, service, version)
}

func (s *PostgresStore) GetLatestConfig(ctx context.Context, service string) (*model.Configuration, error) {
	return queryGetLatestConfig(ctx, s.db, service)
}

func (s *PostgresStore) ListHistory(ctx context.Context, service string, limit int) ([]*model.HistoryEntry, error) {
	return queryListHistory(ctx, s.db, service, limit)
}

func (s *PostgresStore) ListAllConfigs(ctx context.Context) ([]*model.Configuration, error) {
	return queryListAllConfigs(ctx, s.db)
}
