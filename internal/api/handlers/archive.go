package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/faqd/internal/api"
	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/pagination"
	"github.com/cloo-solutions/faqd/internal/service"
)

type ArchiveService interface {
	ListFiles(ctx context.Context, input service.ListFilesInput) (*domain.ArchiveFilePage, error)
	GetFileContent(ctx context.Context, fileID string) (*domain.ArchiveDocument, error)
}

type ArchiveHandler struct {
	svc ArchiveService
}

func NewArchiveHandler(svc ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{svc: svc}
}

type ArchiveFileResponse struct {
	ID           string `json:"id"`
	CollectionID string `json:"collection_id,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Bytes        int64  `json:"bytes"`
	ContentType  string `json:"content_type,omitempty"`
	Status       string `json:"status,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ArchiveFileListResponse struct {
	Items   []*ArchiveFileResponse `json:"items"`
	HasMore bool                   `json:"has_more"`
	LastID  string                 `json:"last_id,omitempty"`
}

// ArchiveDocumentResponse carries the file metadata and its resolved payload:
// the parsed JSON value when content_kind is "structured", the text otherwise.
type ArchiveDocumentResponse struct {
	File        *ArchiveFileResponse `json:"file"`
	ContentKind domain.ContentKind   `json:"content_kind"`
	Content     any                  `json:"content"`
}

func archiveFileToResponse(f *domain.ArchiveFile) *ArchiveFileResponse {
	return &ArchiveFileResponse{
		ID:           f.ID,
		CollectionID: f.CollectionID,
		Filename:     f.Filename,
		Bytes:        f.Bytes,
		ContentType:  f.ContentType,
		Status:       f.Status,
		Purpose:      f.Purpose,
		CreatedAt:    f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ArchiveHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := pagination.ParseLimit(query.Get("limit"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.ListFiles(r.Context(), service.ListFilesInput{
		CollectionID: query.Get("collection"),
		Limit:        limit,
		After:        query.Get("after"),
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	items := make([]*ArchiveFileResponse, 0, len(page.Files))
	for _, f := range page.Files {
		items = append(items, archiveFileToResponse(f))
	}

	api.Success(w, http.StatusOK, ArchiveFileListResponse{
		Items:   items,
		HasMore: page.HasMore,
		LastID:  page.LastID,
	})
}

// GetFileContent serves /vector-files/*; the wildcard lets S3 keys keep their slashes.
func (h *ArchiveHandler) GetFileContent(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "*")
	if fileID == "" {
		api.Error(w, http.StatusBadRequest, "file id is required")
		return
	}

	doc, err := h.svc.GetFileContent(r.Context(), fileID)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, ArchiveDocumentResponse{
		File:        archiveFileToResponse(doc.File),
		ContentKind: doc.Content.Kind,
		Content:     doc.Content.Value(),
	})
}
