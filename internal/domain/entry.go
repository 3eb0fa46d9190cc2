package domain

import (
	"fmt"
	"strings"
	"time"
)

// EmbeddingSeparator joins question and answer into the text that gets embedded.
const EmbeddingSeparator = "\n"

// Entry represents a question/answer pair in the knowledge base.
// Embedding is always derived from Question and Answer as written in the same
// persistence operation; it is never patched on its own.
type Entry struct {
	ID        string
	Question  string
	Answer    string
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntry creates a new Entry instance
func NewEntry(
	id, question, answer string,
	embedding []float32,
	createdAt, updatedAt time.Time,
) *Entry {
	return &Entry{
		ID:        id,
		Question:  question,
		Answer:    answer,
		Embedding: embedding,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EmbeddingText builds the provider input for a question/answer pair.
func EmbeddingText(question, answer string) string {
	return question + EmbeddingSeparator + answer
}

// ValidateEntryText checks the caller-supplied text of an entry.
// Whitespace-only text counts as empty.
func ValidateEntryText(question, answer string) error {
	if strings.TrimSpace(question) == "" {
		return ErrMissingQuestion
	}
	if strings.TrimSpace(answer) == "" {
		return ErrMissingAnswer
	}
	return nil
}

// ValidateEntry validates an Entry instance before it is persisted
func ValidateEntry(e *Entry) error {
	if e == nil {
		return fmt.Errorf("entry cannot be nil")
	}

	if e.ID == "" {
		return NewDomainError(ErrCodeValidation, "entry ID is required")
	}

	if err := ValidateEntryText(e.Question, e.Answer); err != nil {
		return err
	}

	if len(e.Embedding) == 0 {
		return NewDomainError(ErrCodeValidation, "entry Embedding is required")
	}

	return nil
}
