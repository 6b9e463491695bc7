package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/postgres"
	"github.com/sagarc03/sheetbridge/database/sqlite"
)

// Config holds the configuration for connecting to a journal backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// Tables holds the journal table names
	Tables sheetbridge.Tables `mapstructure:"tables"`
}

// Database is a connected journal backend.
type Database interface {
	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
	// Migrate creates the journal tables if they do not exist.
	Migrate(ctx context.Context) error
	// Validate checks that the journal tables have the expected columns.
	Validate(ctx context.Context) error
	// GetJournal returns the FetchJournal backed by this database.
	GetJournal() sheetbridge.FetchJournal
	// Close releases the connection.
	Close() error
}

// Connect opens the configured backend. It does not migrate or validate;
// callers decide when to do that.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open connects, optionally migrates, and validates the schema, closing the
// connection again on any failure.
func Open(ctx context.Context, cfg Config, migrate bool) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if migrate {
		if err = db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
		}
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate %s schema: %w", cfg.Type, err)
	}

	return db, nil
}
