package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code, so that
// contextual errors still match the sentinels below with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeDocumentNotFound   = "DOCUMENT_NOT_FOUND"
	ErrCodeEmbeddingProvider  = "EMBEDDING_PROVIDER_ERROR"
	ErrCodeStoreUnavailable   = "STORE_UNAVAILABLE"
	ErrCodeArchiveUnavailable = "ARCHIVE_UNAVAILABLE"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingQuestion      = NewDomainError(ErrCodeValidation, "question is required")
	ErrMissingAnswer        = NewDomainError(ErrCodeValidation, "answer is required")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrEntryNotFound    = NewDomainError(ErrCodeNotFound, "faq entry not found")
	ErrDocumentNotFound = NewDomainError(ErrCodeDocumentNotFound, "archive file not found")
)

// Collaborator errors
var (
	ErrEmbeddingProvider  = NewDomainError(ErrCodeEmbeddingProvider, "embedding provider failed")
	ErrStoreUnavailable   = NewDomainError(ErrCodeStoreUnavailable, "record store unavailable")
	ErrArchiveUnavailable = NewDomainError(ErrCodeArchiveUnavailable, "document archive unavailable")
)

// Authorization errors
var (
	ErrInvalidAPIToken = NewDomainError(ErrCodeUnauthorized, "invalid api token")
)

// EmbeddingProviderError wraps a provider failure with the operation that triggered it.
func EmbeddingProviderError(op string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbeddingProvider, fmt.Sprintf("%s: embedding generation failed", op), err)
}

// StoreUnavailableError wraps a record store failure. id may be empty for table-wide operations.
func StoreUnavailableError(op, id string, err error) *DomainError {
	msg := fmt.Sprintf("%s: record store unavailable", op)
	if id != "" {
		msg = fmt.Sprintf("%s %s: record store unavailable", op, id)
	}
	return NewDomainErrorWithCause(ErrCodeStoreUnavailable, msg, err)
}

// EntryNotFoundError reports a missing entry for the given operation.
func EntryNotFoundError(op, id string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s %s: faq entry not found", op, id))
}

// DocumentNotFoundError reports a file id unknown to the archive.
func DocumentNotFoundError(op, fileID string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeDocumentNotFound, fmt.Sprintf("%s %s: archive file not found", op, fileID), err)
}

// ArchiveUnavailableError wraps a transport failure talking to the archive.
func ArchiveUnavailableError(op, id string, err error) *DomainError {
	msg := fmt.Sprintf("%s: document archive unavailable", op)
	if id != "" {
		msg = fmt.Sprintf("%s %s: document archive unavailable", op, id)
	}
	return NewDomainErrorWithCause(ErrCodeArchiveUnavailable, msg, err)
}

// IsDomainError reports whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
