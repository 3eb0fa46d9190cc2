package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/logging"
	"github.com/cloo-solutions/faqd/internal/metrics"
	"github.com/cloo-solutions/faqd/internal/pagination"
	"github.com/cloo-solutions/faqd/internal/telemetry"
)

// EntryRepositoryInterface defines the repository interface for entry persistence.
// Create and Update each persist the whole record, embedding included, in one statement.
type EntryRepositoryInterface interface {
	List(ctx context.Context) ([]*domain.Entry, error)
	ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) (*EntryPageResult, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	Create(ctx context.Context, e *domain.Entry) error
	Update(ctx context.Context, e *domain.Entry) error
	Delete(ctx context.Context, id string) (int64, error)
}

type EntryPageResult struct {
	Items      []*domain.Entry
	NextCursor string
	HasMore    bool
}

// EmbeddingClient turns text into a vector.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// EntryService handles business logic for FAQ entries
type EntryService struct {
	entryRepo EntryRepositoryInterface
	embedder  EmbeddingClient
	uuidGen   UUIDGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewEntryService creates a new EntryService instance
func NewEntryService(entryRepo EntryRepositoryInterface, embedder EmbeddingClient, logger *zap.Logger) *EntryService {
	return NewEntryServiceWithUUIDGen(entryRepo, embedder, logger, &DefaultUUIDGenerator{})
}

// NewEntryServiceWithUUIDGen creates a new EntryService with custom UUID generator (for testing)
func NewEntryServiceWithUUIDGen(
	entryRepo EntryRepositoryInterface,
	embedder EmbeddingClient,
	logger *zap.Logger,
	uuidGen UUIDGenerator,
) *EntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{
		entryRepo: entryRepo,
		embedder:  embedder,
		uuidGen:   uuidGen,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// CreateEntryInput represents the input for creating an entry
type CreateEntryInput struct {
	Question string
	Answer   string
}

// UpdateEntryInput represents the input for replacing an entry's text
type UpdateEntryInput struct {
	ID       string
	Question string
	Answer   string
}

type ListEntriesInput struct {
	Cursor string
	Limit  int
}

type ListEntriesOutput struct {
	Items   []*domain.Entry
	Cursor  string
	HasMore bool
}

// List returns every stored entry. Ordering is unspecified.
func (s *EntryService) List(ctx context.Context) (entries []*domain.Entry, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EntryService.List", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()
	defer func() { metrics.ObserveEntryOperation("list", err) }()

	entries, err = s.entryRepo.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, s.storeError("list entries", "", err))
	}
	return entries, nil
}

// ListPage returns one keyset page ordered newest first.
func (s *EntryService) ListPage(ctx context.Context, input ListEntriesInput) (out *ListEntriesOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EntryService.ListPage", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()
	defer func() { metrics.ObserveEntryOperation("list", err) }()

	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil || (cursor != nil && !isEntryID(cursor.LastID)) {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", pagination.ErrInvalidCursor)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	result, err := s.entryRepo.ListPage(ctx, cursor, limit)
	if err != nil {
		return nil, s.fail(ctx, span, s.storeError("list entries", "", err))
	}

	return &ListEntriesOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}

// Get retrieves an entry by ID
func (s *EntryService) Get(ctx context.Context, id string) (entry *domain.Entry, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EntryService.Get", telemetry.SpanAttributes{
		EntryID:   id,
		Operation: "get",
	})
	defer span.End()
	defer func() { metrics.ObserveEntryOperation("get", err) }()

	if !isEntryID(id) {
		return nil, domain.EntryNotFoundError("get", id)
	}

	entry, err = s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, s.storeError("get", id, err))
	}
	return entry, nil
}

// Create validates the text, embeds it and persists the new entry in a single write.
// Nothing is written when the embedding provider fails.
func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (entry *domain.Entry, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EntryService.Create", telemetry.SpanAttributes{
		Operation: "create",
	})
	defer span.End()
	defer func() { metrics.ObserveEntryOperation("create", err) }()

	if err := domain.ValidateEntryText(input.Question, input.Answer); err != nil {
		return nil, err
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, domain.EmbeddingText(input.Question, input.Answer))
	if err != nil {
		return nil, s.fail(ctx, span, domain.EmbeddingProviderError("create", err))
	}

	now := s.now()
	entry = domain.NewEntry(s.uuidGen.NewString(), input.Question, input.Answer, embedding, now, now)
	span.SetTag("entry_id", entry.ID)

	if err := domain.ValidateEntry(entry); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, s.fail(ctx, span, s.storeError("create", entry.ID, err))
	}

	s.logger.Info("faq entry created", append(logging.ContextFields(ctx), zap.String("entry_id", entry.ID))...)
	return entry, nil
}

// Update replaces question and answer of an existing entry and recomputes its
// embedding. The id and creation time never change.
func (s *EntryService) Update(ctx context.Context, input UpdateEntryInput) (entry *domain.Entry, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EntryService.Update", telemetry.SpanAttributes{
		EntryID:   input.ID,
		Operation: "update",
	})
	defer span.End()
	defer func() { metrics.ObserveEntryOperation("update", err) }()

	if err := domain.ValidateEntryText(input.Question, input.Answer); err != nil {
		return nil, err
	}

	if !isEntryID(input.ID) {
		return nil, domain.EntryNotFoundError("update", input.ID)
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, domain.EmbeddingText(input.Question, input.Answer))
	if err != nil {
		return nil, s.fail(ctx, span, domain.EmbeddingProviderError("update "+input.ID, err))
	}

	now := s.now()
	entry = domain.NewEntry(input.ID, input.Question, input.Answer, embedding, time.Time{}, now)

	if err := domain.ValidateEntry(entry); err != nil {
		return nil, err
	}

	// Update fills CreatedAt from the stored row
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, s.fail(ctx, span, s.storeError("update", input.ID, err))
	}

	s.logger.Info("faq entry updated", append(logging.ContextFields(ctx), zap.String("entry_id", entry.ID))...)
	return entry, nil
}

// Delete removes an entry and reports how many rows went away (0 or 1).
// Deleting a missing entry is not an error.
func (s *EntryService) Delete(ctx context.Context, id string) (deleted int64, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EntryService.Delete", telemetry.SpanAttributes{
		EntryID:   id,
		Operation: "delete",
	})
	defer span.End()
	defer func() { metrics.ObserveEntryOperation("delete", err) }()

	if !isEntryID(id) {
		return 0, nil
	}

	deleted, err = s.entryRepo.Delete(ctx, id)
	if err != nil {
		return 0, s.fail(ctx, span, s.storeError("delete", id, err))
	}

	s.logger.Info("faq entry deleted", append(logging.ContextFields(ctx),
		zap.String("entry_id", id),
		zap.Int64("deleted", deleted),
	)...)
	return deleted, nil
}

func (s *EntryService) storeError(op, id string, err error) error {
	if errors.Is(err, domain.ErrEntryNotFound) {
		return domain.EntryNotFoundError(op, id)
	}
	if domain.IsDomainError(err) {
		return err
	}
	return domain.StoreUnavailableError(op, id, err)
}

// fail logs collaborator failures and marks the span. Not-found is an expected outcome.
func (s *EntryService) fail(ctx context.Context, span *telemetry.Span, err error) error {
	if errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}
	span.SetError(err)
	s.logger.Error("faq entry operation failed", append(logging.ContextFields(ctx), zap.Error(err))...)
	return err
}

func isEntryID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
