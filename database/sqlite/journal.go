package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/internal"
)

// timeFormat has a fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

type journal struct {
	db        *sql.DB
	tableName string
}

func (j *journal) Record(ctx context.Context, entry sheetbridge.FetchEntry) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, endpoint, a1_range, row_count, outcome, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quoteIdentifier(j.tableName))

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var errText sql.NullString
	if entry.Error != "" {
		errText = sql.NullString{String: entry.Error, Valid: true}
	}

	_, err := j.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Endpoint,
		entry.Range,
		entry.Rows,
		string(entry.Outcome),
		errText,
		entry.DurationMS,
		entry.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}

	return nil
}

func (j *journal) List(ctx context.Context, q sheetbridge.JournalQuery) (sheetbridge.JournalPage, error) {
	cursor, err := internal.DecodeCursor(q.Cursor)
	if err != nil {
		return sheetbridge.JournalPage{}, fmt.Errorf("list fetches: %w", err)
	}

	limit := internal.Limit(q.Limit)

	var conditions []string
	var args []any

	if q.Endpoint != "" {
		conditions = append(conditions, "endpoint = ?")
		args = append(args, q.Endpoint)
	}
	if q.Cursor != "" {
		conditions = append(conditions, "(created_at, id) < (?, ?)")
		args = append(args, cursor.CreatedAt.UTC().Format(timeFormat), cursor.ID.String())
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, endpoint, a1_range, row_count, outcome, error, duration_ms, created_at
		FROM %s
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, quoteIdentifier(j.tableName), where)
	args = append(args, limit+1)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return sheetbridge.JournalPage{}, fmt.Errorf("list fetches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]sheetbridge.FetchEntry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return sheetbridge.JournalPage{}, fmt.Errorf("list fetches: %w", err)
		}
		items = append(items, entry)
	}

	if err := rows.Err(); err != nil {
		return sheetbridge.JournalPage{}, fmt.Errorf("list fetches: rows: %w", err)
	}

	var nextCursor string
	if len(items) > limit {
		last := items[limit-1]
		nextCursor = internal.EncodeCursor(last.CreatedAt, last.ID)
		items = items[:limit]
	}

	return sheetbridge.JournalPage{Items: items, NextCursor: nextCursor}, nil
}

func scanEntry(rows *sql.Rows) (sheetbridge.FetchEntry, error) {
	var (
		e         sheetbridge.FetchEntry
		idStr     string
		outcome   string
		errText   sql.NullString
		createdAt string
	)

	if err := rows.Scan(&idStr, &e.Endpoint, &e.Range, &e.Rows, &outcome, &errText, &e.DurationMS, &createdAt); err != nil {
		return sheetbridge.FetchEntry{}, fmt.Errorf("scan: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return sheetbridge.FetchEntry{}, fmt.Errorf("parse uuid: %w", err)
	}

	e.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return sheetbridge.FetchEntry{}, fmt.Errorf("parse created_at: %w", err)
	}

	e.ID = id
	e.Outcome = sheetbridge.Outcome(outcome)
	e.Error = errText.String

	return e, nil
}
