package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC)
	encoded := EncodeCursor("3f2b1c9e-0000-4000-8000-000000000001", ts)
	require.NotEmpty(t, encoded)

	cursor, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "3f2b1c9e-0000-4000-8000-000000000001", cursor.LastID)
	assert.True(t, ts.Equal(cursor.Timestamp))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		cursor, err := DecodeCursor("")
		assert.NoError(t, err)
		assert.Nil(t, cursor)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeCursor("%%%")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := DecodeCursor("bm9zZXBhcmF0b3I")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := DecodeCursor("eWVzdGVyZGF5LGFiYw")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"10", 10, false},
		{"1000", MaxLimit, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLimit(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLimit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrimAndNextCursor(t *testing.T) {
	type item struct {
		id string
		at time.Time
	}
	now := time.Now().UTC()
	items := []item{{"a", now}, {"b", now.Add(-time.Second)}, {"c", now.Add(-2 * time.Second)}}

	page, hasMore := Trim(items, 2)
	assert.Len(t, page, 2)
	assert.True(t, hasMore)

	next := NextCursor(page, hasMore, func(i item) string { return i.id }, func(i item) time.Time { return i.at })
	cursor, err := DecodeCursor(next)
	require.NoError(t, err)
	assert.Equal(t, "b", cursor.LastID)

	page, hasMore = Trim(items, 5)
	assert.Len(t, page, 3)
	assert.False(t, hasMore)
	assert.Empty(t, NextCursor(page, hasMore, func(i item) string { return i.id }, func(i item) time.Time { return i.at }))
}
