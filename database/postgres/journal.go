package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/internal"
)

type journal struct {
	pool      *pgxpool.Pool
	tableName string
}

func (j *journal) Record(ctx context.Context, entry sheetbridge.FetchEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, endpoint, a1_range, row_count, outcome, error, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, pgx.Identifier{j.tableName}.Sanitize())

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var errText *string
	if entry.Error != "" {
		errText = &entry.Error
	}

	_, err := j.pool.Exec(ctx, query,
		entry.ID,
		entry.Endpoint,
		entry.Range,
		entry.Rows,
		string(entry.Outcome),
		errText,
		entry.DurationMS,
		entry.CreatedAt,
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
		args = append(args, q.Endpoint)
		conditions = append(conditions, fmt.Sprintf("endpoint = $%d", len(args)))
	}
	if q.Cursor != "" {
		args = append(args, cursor.CreatedAt, cursor.ID)
		conditions = append(conditions, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT id, endpoint, a1_range, row_count, outcome, error, duration_ms, created_at
		FROM %s
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d
	`, pgx.Identifier{j.tableName}.Sanitize(), where, len(args))

	rows, err := j.pool.Query(ctx, query, args...)
	if err != nil {
		return sheetbridge.JournalPage{}, fmt.Errorf("list fetches: %w", err)
	}
	defer rows.Close()

	items := make([]sheetbridge.FetchEntry, 0, limit)
	for rows.Next() {
		var e sheetbridge.FetchEntry
		var outcome string
		var errText *string

		if err := rows.Scan(&e.ID, &e.Endpoint, &e.Range, &e.Rows, &outcome, &errText, &e.DurationMS, &e.CreatedAt); err != nil {
			return sheetbridge.JournalPage{}, fmt.Errorf("list fetches: scan: %w", err)
		}

		e.Outcome = sheetbridge.Outcome(outcome)
		if errText != nil {
			e.Error = *errText
		}
		items = append(items, e)
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
