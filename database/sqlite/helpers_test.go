package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

func randomTables(t *testing.T) sheetbridge.Tables {
	t.Helper()
	return sheetbridge.Tables{Fetches: fmt.Sprintf("fetches_%s", getRandomString(t))}
}

// setupTestJournal creates a migrated in-memory journal with a unique table name.
func setupTestJournal(t *testing.T) sheetbridge.FetchJournal {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	return db.GetJournal()
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func entryAt(endpoint string, offset time.Duration) sheetbridge.FetchEntry {
	return sheetbridge.FetchEntry{
		ID:         uuid.New(),
		Endpoint:   endpoint,
		Range:      "Hoja1!A2:A",
		Rows:       3,
		Outcome:    sheetbridge.OutcomeOK,
		DurationMS: 120,
		CreatedAt:  baseTime.Add(offset),
	}
}
