package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
)

// ArchiveBackendName labels metrics for the vector store archive.
const ArchiveBackendName = "openai"

// DefaultListLimit is the page size used when the caller does not pick one.
const DefaultListLimit = 20

// ArchiveAPI is the subset of the go-openai client used to read vector store files.
type ArchiveAPI interface {
	ListVectorStoreFiles(ctx context.Context, vectorStoreID string, pagination openai.Pagination) (openai.VectorStoreFilesList, error)
	GetFile(ctx context.Context, fileID string) (openai.File, error)
	GetFileContent(ctx context.Context, fileID string) (openai.RawResponse, error)
}

// ArchiveClient reads files attached to OpenAI vector stores.
type ArchiveClient struct {
	api ArchiveAPI
}

// NewArchiveClient creates an ArchiveClient. *openai.Client satisfies ArchiveAPI.
func NewArchiveClient(api ArchiveAPI) *ArchiveClient {
	return &ArchiveClient{api: api}
}

// ListFiles returns one page of files attached to the vector store collectionID.
func (c *ArchiveClient) ListFiles(ctx context.Context, collectionID string, limit int, after string) (page *domain.ArchiveFilePage, err error) {
	defer func() { metrics.ObserveArchiveRequest(ArchiveBackendName, "list", err) }()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	pagination := openai.Pagination{Limit: &limit}
	if after != "" {
		pagination.After = &after
	}

	resp, err := c.api.ListVectorStoreFiles(ctx, collectionID, pagination)
	if err != nil {
		return nil, classifyArchiveError("list files", collectionID, err)
	}

	page = &domain.ArchiveFilePage{
		Files:   make([]*domain.ArchiveFile, 0, len(resp.VectorStoreFiles)),
		HasMore: resp.HasMore,
	}
	for _, f := range resp.VectorStoreFiles {
		page.Files = append(page.Files, &domain.ArchiveFile{
			ID:           f.ID,
			CollectionID: f.VectorStoreID,
			Bytes:        int64(f.UsageBytes),
			Status:       f.Status,
			CreatedAt:    time.Unix(f.CreatedAt, 0).UTC(),
		})
	}
	if resp.LastID != nil {
		page.LastID = *resp.LastID
	} else if n := len(page.Files); n > 0 {
		page.LastID = page.Files[n-1].ID
	}

	return page, nil
}

// GetFile retrieves file metadata.
func (c *ArchiveClient) GetFile(ctx context.Context, fileID string) (file *domain.ArchiveFile, err error) {
	defer func() { metrics.ObserveArchiveRequest(ArchiveBackendName, "metadata", err) }()

	f, err := c.api.GetFile(ctx, fileID)
	if err != nil {
		return nil, classifyArchiveError("get file", fileID, err)
	}

	return &domain.ArchiveFile{
		ID:        f.ID,
		Filename:  f.FileName,
		Bytes:     int64(f.Bytes),
		Status:    f.Status,
		Purpose:   f.Purpose,
		CreatedAt: time.Unix(f.CreatedAt, 0).UTC(),
	}, nil
}

// GetFileBytes downloads the raw file payload.
func (c *ArchiveClient) GetFileBytes(ctx context.Context, fileID string) (data []byte, err error) {
	defer func() { metrics.ObserveArchiveRequest(ArchiveBackendName, "content", err) }()

	resp, err := c.api.GetFileContent(ctx, fileID)
	if err != nil {
		return nil, classifyArchiveError("get file content", fileID, err)
	}
	defer resp.Close()

	data, err = io.ReadAll(resp)
	if err != nil {
		return nil, domain.ArchiveUnavailableError("read file content", fileID, err)
	}
	return data, nil
}

func classifyArchiveError(op, id string, err error) error {
	if StatusCode(err) == http.StatusNotFound {
		return domain.DocumentNotFoundError(op, id, err)
	}
	return domain.ArchiveUnavailableError(op, id, fmt.Errorf("openai: %w", err))
}
