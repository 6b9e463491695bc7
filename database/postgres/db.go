package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/internal"
)

var fetchesTableSchema = map[string]internal.Column{
	"id":          {DataType: "uuid"},
	"endpoint":    {DataType: "text"},
	"a1_range":    {DataType: "text"},
	"row_count":   {DataType: "integer"},
	"outcome":     {DataType: "text"},
	"error":       {DataType: "text", Nullable: true},
	"duration_ms": {DataType: "bigint"},
	"created_at":  {DataType: "timestamp with time zone"},
}

// ValidateSchema checks the journal tables against the expected columns.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables sheetbridge.Tables) error {
	if err := validateTableSchema(ctx, pool, tables.Fetches, fetchesTableSchema); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Fetches, err)
	}
	return nil
}

func validateTableSchema(ctx context.Context, pool *pgxpool.Pool, tableName string, expected map[string]internal.Column) error {
	if !sheetbridge.IsValidTableName(tableName) {
		return fmt.Errorf("validate table schema: invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, pool, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", tableName)
	}

	actual, err := tableColumns(ctx, pool, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	return internal.CheckColumns(tableName, expected, actual)
}

func tableColumns(ctx context.Context, pool *pgxpool.Pool, tableName string) (map[string]internal.Column, error) {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := pool.Query(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	columns := make(map[string]internal.Column)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns[name] = internal.Column{
			DataType: strings.ToLower(dataType),
			Nullable: nullable == "YES",
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return columns, nil
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = $1
		)
	`
	if err := pool.QueryRow(ctx, query, tableName).Scan(&exists); err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return exists, nil
}
