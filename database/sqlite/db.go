package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/internal"
)

var fetchesTableSchema = map[string]internal.Column{
	"id":          {DataType: "text"},
	"endpoint":    {DataType: "text"},
	"a1_range":    {DataType: "text"},
	"row_count":   {DataType: "integer"},
	"outcome":     {DataType: "text"},
	"error":       {DataType: "text", Nullable: true},
	"duration_ms": {DataType: "integer"},
	"created_at":  {DataType: "text"},
}

func ValidateSchema(ctx context.Context, db *sql.DB, tables sheetbridge.Tables) error {
	if err := validateTableSchema(ctx, db, tables.Fetches, fetchesTableSchema); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Fetches, err)
	}
	return nil
}

func validateTableSchema(ctx context.Context, db *sql.DB, tableName string, expected map[string]internal.Column) error {
	if !sheetbridge.IsValidTableName(tableName) {
		return fmt.Errorf("validate table schema: invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, db, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", tableName)
	}

	actual, err := tableColumns(ctx, db, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	return internal.CheckColumns(tableName, expected, actual)
}

func tableColumns(ctx context.Context, db *sql.DB, tableName string) (map[string]internal.Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]internal.Column)
	for rows.Next() {
		var (
			cid       int
			name      string
			dataType  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns[name] = internal.Column{
			DataType: strings.ToLower(dataType),
			Nullable: notNull == 0,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return columns, nil
}

func tableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var name string
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	err := db.QueryRowContext(ctx, query, tableName).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}
