package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	now := time.Now()
	entry := NewEntry("e1", "What is X?", "X is Y.", []float32{0.1, 0.2}, now, now)

	require.NotNil(t, entry)
	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, "What is X?", entry.Question)
	assert.Equal(t, "X is Y.", entry.Answer)
	assert.Equal(t, []float32{0.1, 0.2}, entry.Embedding)
	assert.Equal(t, now, entry.CreatedAt)
	assert.Equal(t, now, entry.UpdatedAt)
}

func TestEmbeddingText(t *testing.T) {
	assert.Equal(t, "What is X?\nX is Y.", EmbeddingText("What is X?", "X is Y."))
	assert.NotEqual(t, EmbeddingText("a b", "c"), EmbeddingText("a", "b c"))
}

func TestValidateEntryText(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		wantErr  error
	}{
		{"valid", "Q", "A", nil},
		{"empty question", "", "A", ErrMissingQuestion},
		{"blank question", "   \n", "A", ErrMissingQuestion},
		{"empty answer", "Q", "", ErrMissingAnswer},
		{"both empty", "", "", ErrMissingQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryText(tt.question, tt.answer)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestValidateEntry(t *testing.T) {
	valid := func() *Entry {
		return &Entry{ID: "e1", Question: "Q", Answer: "A", Embedding: []float32{1}}
	}

	t.Run("valid entry", func(t *testing.T) {
		assert.NoError(t, ValidateEntry(valid()))
	})

	t.Run("nil entry", func(t *testing.T) {
		assert.Error(t, ValidateEntry(nil))
	})

	t.Run("missing id", func(t *testing.T) {
		e := valid()
		e.ID = ""
		err := ValidateEntry(e)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingRequiredField))
		assert.Contains(t, err.Error(), "ID")
	})

	t.Run("missing embedding", func(t *testing.T) {
		e := valid()
		e.Embedding = nil
		err := ValidateEntry(e)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Embedding")
	})

	t.Run("missing answer", func(t *testing.T) {
		e := valid()
		e.Answer = ""
		assert.Equal(t, ErrMissingAnswer, ValidateEntry(e))
	})
}
