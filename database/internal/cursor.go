// Package internal holds helpers shared by the journal backends.
package internal

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/sheetbridge"
)

// DefaultLimit is the page size used when a query does not set one.
const DefaultLimit = 50

// Cursor points at the last entry of a journal page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// EncodeCursor encodes cursor data to a base64 string for pagination.
func EncodeCursor(createdAt time.Time, id uuid.UUID) string {
	data := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id.String()
	return base64.URLEncoding.EncodeToString([]byte(data))
}

// DecodeCursor decodes a pagination cursor string back to cursor data.
// An empty cursor decodes to the zero Cursor. Malformed cursors wrap
// sheetbridge.ErrInvalidInput.
func DecodeCursor(cursor string) (Cursor, error) {
	if cursor == "" {
		return Cursor{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid encoding: %w: %w", sheetbridge.ErrInvalidInput, err)
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("decode cursor: invalid format: %w", sheetbridge.ErrInvalidInput)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid timestamp: %w: %w", sheetbridge.ErrInvalidInput, err)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid id: %w: %w", sheetbridge.ErrInvalidInput, err)
	}

	return Cursor{CreatedAt: createdAt, ID: id}, nil
}

// Limit returns the effective page size for a query limit.
func Limit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
