package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/sheetbridge"
)

func TestJournal_RecordAndList(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	ok := entryAt("codes", 0)
	failed := entryAt("questions", time.Second)
	failed.Rows = 0
	failed.Outcome = sheetbridge.OutcomeUnauthorized
	failed.Error = "fetch questions (Hoja2!A2:C): 403"

	require.NoError(t, journal.Record(ctx, ok))
	require.NoError(t, journal.Record(ctx, failed))

	page, err := journal.List(ctx, sheetbridge.JournalQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Empty(t, page.NextCursor)

	// Newest first.
	got := page.Items[0]
	assert.Equal(t, failed.ID, got.ID)
	assert.Equal(t, "questions", got.Endpoint)
	assert.Equal(t, sheetbridge.OutcomeUnauthorized, got.Outcome)
	assert.Equal(t, failed.Error, got.Error)
	assert.Equal(t, 0, got.Rows)
	assert.True(t, failed.CreatedAt.Equal(got.CreatedAt))

	got = page.Items[1]
	assert.Equal(t, ok.ID, got.ID)
	assert.Equal(t, "Hoja1!A2:A", got.Range)
	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, int64(120), got.DurationMS)
	assert.Empty(t, got.Error)
}

func TestJournal_Record_FillsIDAndTime(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	require.NoError(t, journal.Record(ctx, sheetbridge.FetchEntry{
		Endpoint: "codes",
		Range:    "Hoja1!A2:A",
		Outcome:  sheetbridge.OutcomeOK,
	}))

	page, err := journal.List(ctx, sheetbridge.JournalQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.NotEqual(t, uuid.Nil, page.Items[0].ID)
	assert.False(t, page.Items[0].CreatedAt.IsZero())
}

func TestJournal_List_FilterByEndpoint(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	for i := range 3 {
		require.NoError(t, journal.Record(ctx, entryAt("codes", time.Duration(i)*time.Second)))
		require.NoError(t, journal.Record(ctx, entryAt("questions", time.Duration(i)*time.Second)))
	}

	page, err := journal.List(ctx, sheetbridge.JournalQuery{Endpoint: "codes", Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	for _, item := range page.Items {
		assert.Equal(t, "codes", item.Endpoint)
	}
}

func TestJournal_List_Pagination(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	// Two entries share a timestamp so the id breaks the tie.
	offsets := []time.Duration{0, time.Second, time.Second, 2 * time.Second, 3 * time.Second}
	for _, off := range offsets {
		require.NoError(t, journal.Record(ctx, entryAt("codes", off)))
	}

	seen := make(map[uuid.UUID]bool)
	var prev time.Time
	cursor := ""
	pages := 0

	for {
		page, err := journal.List(ctx, sheetbridge.JournalQuery{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		pages++

		for _, item := range page.Items {
			assert.False(t, seen[item.ID], "duplicate item %s", item.ID)
			seen[item.ID] = true
			if !prev.IsZero() {
				assert.False(t, item.CreatedAt.After(prev), "items must be newest first")
			}
			prev = item.CreatedAt
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	assert.Len(t, seen, len(offsets))
	assert.Equal(t, 3, pages)
}

func TestJournal_List_SubSecondOrdering(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	first := entryAt("codes", 0)
	second := entryAt("codes", 500*time.Millisecond)

	require.NoError(t, journal.Record(ctx, first))
	require.NoError(t, journal.Record(ctx, second))

	page, err := journal.List(ctx, sheetbridge.JournalQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
}

func TestJournal_List_InvalidCursor(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	_, err := journal.List(ctx, sheetbridge.JournalQuery{Cursor: "garbage!"})
	assert.ErrorIs(t, err, sheetbridge.ErrInvalidInput)
}

func TestJournal_List_Empty(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	page, err := journal.List(ctx, sheetbridge.JournalQuery{Limit: 5})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextCursor)
}
