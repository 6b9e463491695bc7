package internal_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/database/internal"
)

func TestEncodeCursor_DecodeCursor_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		createdAt time.Time
	}{
		{name: "whole seconds", createdAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "nanosecond precision", createdAt: time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC)},
		{name: "non utc zone", createdAt: time.Date(2024, 6, 20, 14, 45, 30, 0, time.FixedZone("ART", -3*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id := uuid.New()
			encoded := internal.EncodeCursor(tt.createdAt, id)
			assert.NotEmpty(t, encoded, "encoded cursor should not be empty")

			decoded, err := internal.DecodeCursor(encoded)
			require.NoError(t, err)

			assert.True(t, tt.createdAt.Equal(decoded.CreatedAt),
				"createdAt mismatch: expected %v, got %v", tt.createdAt, decoded.CreatedAt)
			assert.Equal(t, id, decoded.ID)
		})
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	t.Parallel()

	decoded, err := internal.DecodeCursor("")
	require.NoError(t, err)
	assert.Equal(t, internal.Cursor{}, decoded)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	t.Parallel()

	encode := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name   string
		cursor string
		errMsg string
	}{
		{name: "not base64", cursor: "!!!not-base64!!!", errMsg: "invalid encoding"},
		{name: "no separator", cursor: encode("2024-01-15T10:30:00Z"), errMsg: "invalid format"},
		{name: "bad timestamp", cursor: encode("yesterday|" + uuid.NewString()), errMsg: "invalid timestamp"},
		{name: "bad id", cursor: encode("2024-01-15T10:30:00Z|not-a-uuid"), errMsg: "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := internal.DecodeCursor(tt.cursor)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, sheetbridge.ErrInvalidInput)
		})
	}
}

func TestLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, internal.DefaultLimit, internal.Limit(0))
	assert.Equal(t, internal.DefaultLimit, internal.Limit(-3))
	assert.Equal(t, 7, internal.Limit(7))
}
