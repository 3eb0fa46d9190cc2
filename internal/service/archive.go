package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/logging"
	"github.com/cloo-solutions/faqd/internal/metrics"
	"github.com/cloo-solutions/faqd/internal/telemetry"
)

// ArchiveClient reads files from the external document archive.
type ArchiveClient interface {
	ListFiles(ctx context.Context, collectionID string, limit int, after string) (*domain.ArchiveFilePage, error)
	GetFile(ctx context.Context, fileID string) (*domain.ArchiveFile, error)
	GetFileBytes(ctx context.Context, fileID string) ([]byte, error)
}

// ArchiveService exposes read-only access to archived documents.
type ArchiveService struct {
	archive           ArchiveClient
	defaultCollection string
	logger            *zap.Logger
}

func NewArchiveService(archive ArchiveClient, defaultCollection string, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{
		archive:           archive,
		defaultCollection: defaultCollection,
		logger:            logger,
	}
}

type ListFilesInput struct {
	CollectionID string
	Limit        int
	After        string
}

// ListFiles returns one page of the requested collection, falling back to the configured one.
func (s *ArchiveService) ListFiles(ctx context.Context, input ListFilesInput) (*domain.ArchiveFilePage, error) {
	collectionID := input.CollectionID
	if collectionID == "" {
		collectionID = s.defaultCollection
	}

	ctx, span := telemetry.StartSpan(ctx, "ArchiveService.ListFiles", telemetry.SpanAttributes{
		CollectionID: collectionID,
		Operation:    "list_files",
	})
	defer span.End()

	if collectionID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "collection id is required")
	}

	page, err := s.archive.ListFiles(ctx, collectionID, input.Limit, input.After)
	if err != nil {
		return nil, s.fail(ctx, span, archiveError("list files", collectionID, err))
	}
	return page, nil
}

// GetFileContent fetches metadata, then bytes, and resolves the payload.
// The bytes are not requested when the metadata lookup fails.
func (s *ArchiveService) GetFileContent(ctx context.Context, fileID string) (*domain.ArchiveDocument, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArchiveService.GetFileContent", telemetry.SpanAttributes{
		FileID:    fileID,
		Operation: "get_file_content",
	})
	defer span.End()

	if fileID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "file id is required")
	}

	file, err := s.archive.GetFile(ctx, fileID)
	if err != nil {
		return nil, s.fail(ctx, span, archiveError("get file", fileID, err))
	}

	data, err := s.archive.GetFileBytes(ctx, fileID)
	if err != nil {
		return nil, s.fail(ctx, span, archiveError("get file content", fileID, err))
	}

	content := ResolveContent(data)
	metrics.ContentResolutions.WithLabelValues(string(content.Kind)).Inc()
	if !content.IsStructured() {
		telemetry.AddBreadcrumb(ctx, "archive", "payload is not JSON, returning text")
	}

	s.logger.Debug("archive file resolved", append(logging.ContextFields(ctx),
		zap.String("file_id", fileID),
		zap.String("content_kind", string(content.Kind)),
		zap.Int("bytes", len(data)),
	)...)

	return &domain.ArchiveDocument{File: file, Content: content}, nil
}

func archiveError(op, id string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	return domain.ArchiveUnavailableError(op, id, err)
}

func (s *ArchiveService) fail(ctx context.Context, span *telemetry.Span, err error) error {
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return err
	}
	span.SetError(err)
	s.logger.Error("archive operation failed", append(logging.ContextFields(ctx), zap.Error(err))...)
	return err
}
