package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/sheetbridge/database/sqlite"

	_ "modernc.org/sqlite"
)

func TestDatabase_MigrateAndValidate(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping(ctx))

	err = db.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	assert.NoError(t, db.Validate(ctx))
}

func TestValidateSchema_WrongColumns(t *testing.T) {
	ctx := context.Background()
	tables := randomTables(t)

	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE "%s" (id TEXT NOT NULL, endpoint INTEGER)`, tables.Fetches))
	require.NoError(t, err)

	err = sqlite.ValidateSchema(ctx, conn, tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "endpoint: expected text, got integer")
}

func TestDropTables(t *testing.T) {
	ctx := context.Background()
	tables := randomTables(t)

	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, sqlite.Migrate(ctx, conn, tables))
	require.NoError(t, sqlite.DropTables(ctx, conn, tables))

	err = sqlite.ValidateSchema(ctx, conn, tables)
	assert.ErrorContains(t, err, "does not exist")
}
