package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/sheetbridge"
)

// Migrate creates the journal tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables sheetbridge.Tables) error {
	if err := createFetchesTable(ctx, pool, tables.Fetches); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Fetches, err)
	}
	return nil
}

// DropTables removes the journal tables.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables sheetbridge.Tables) error {
	quotedTable := pgx.Identifier{tables.Fetches}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quotedTable)); err != nil {
		return fmt.Errorf("migrate down %s: %w", tables.Fetches, err)
	}
	return nil
}

func createFetchesTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexRecent := pgx.Identifier{fmt.Sprintf("idx_%s_recent", tableName)}.Sanitize()
	indexEndpoint := pgx.Identifier{fmt.Sprintf("idx_%s_endpoint_recent", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			endpoint TEXT NOT NULL,
			a1_range TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			error TEXT,
			duration_ms BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (created_at DESC, id DESC);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (endpoint, created_at DESC, id DESC);
	`,
		quotedTable,
		indexRecent, quotedTable,
		indexEndpoint, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create fetches table: %w", err)
	}
	return nil
}
