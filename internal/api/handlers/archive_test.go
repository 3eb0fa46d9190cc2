package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/service"
)

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) ListFiles(ctx context.Context, input service.ListFilesInput) (*domain.ArchiveFilePage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArchiveFilePage), args.Error(1)
}

func (m *MockArchiveService) GetFileContent(ctx context.Context, fileID string) (*domain.ArchiveDocument, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArchiveDocument), args.Error(1)
}

func testArchiveFile(id string) *domain.ArchiveFile {
	return &domain.ArchiveFile{ID: id, Filename: "faq.json", Bytes: 7, CreatedAt: time.Unix(1700000000, 0)}
}

func TestArchiveHandler_ListFiles(t *testing.T) {
	svc := new(MockArchiveService)
	handler := NewArchiveHandler(svc)

	svc.On("ListFiles", mock.Anything, service.ListFilesInput{CollectionID: "vs_1", Limit: 10, After: "file-0"}).
		Return(&domain.ArchiveFilePage{
			Files:   []*domain.ArchiveFile{testArchiveFile("file-1")},
			HasMore: true,
			LastID:  "file-1",
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/vector?collection=vs_1&limit=10&after=file-0", nil)
	w := httptest.NewRecorder()

	handler.ListFiles(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ArchiveFileListResponse
	decodeData(t, w.Body, &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "file-1", resp.Items[0].ID)
	assert.True(t, resp.HasMore)
	assert.Equal(t, "file-1", resp.LastID)
}

func TestArchiveHandler_ListFiles_Unavailable(t *testing.T) {
	svc := new(MockArchiveService)
	handler := NewArchiveHandler(svc)

	svc.On("ListFiles", mock.Anything, mock.Anything).
		Return(nil, domain.ArchiveUnavailableError("list files", "vs_1", errors.New("timeout")))

	req := httptest.NewRequest(http.MethodGet, "/vector", nil)
	w := httptest.NewRecorder()

	handler.ListFiles(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestArchiveHandler_GetFileContent_Structured(t *testing.T) {
	svc := new(MockArchiveService)
	handler := NewArchiveHandler(svc)

	svc.On("GetFileContent", mock.Anything, "file-1").Return(&domain.ArchiveDocument{
		File:    testArchiveFile("file-1"),
		Content: service.ResolveContent([]byte(`{"a":1}`)),
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/vector-files/file-1", nil), "*", "file-1")
	w := httptest.NewRecorder()

	handler.GetFileContent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		File        ArchiveFileResponse `json:"file"`
		ContentKind string              `json:"content_kind"`
		Content     json.RawMessage     `json:"content"`
	}
	decodeData(t, w.Body, &resp)
	assert.Equal(t, "file-1", resp.File.ID)
	assert.Equal(t, "structured", resp.ContentKind)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
}

func TestArchiveHandler_GetFileContent_Opaque(t *testing.T) {
	svc := new(MockArchiveService)
	handler := NewArchiveHandler(svc)

	svc.On("GetFileContent", mock.Anything, "docs/readme.txt").Return(&domain.ArchiveDocument{
		File:    testArchiveFile("docs/readme.txt"),
		Content: service.ResolveContent([]byte("hello world")),
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/vector-files/docs/readme.txt", nil), "*", "docs/readme.txt")
	w := httptest.NewRecorder()

	handler.GetFileContent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ContentKind string `json:"content_kind"`
		Content     string `json:"content"`
	}
	decodeData(t, w.Body, &resp)
	assert.Equal(t, "opaque", resp.ContentKind)
	assert.Equal(t, "hello world", resp.Content)
}

func TestArchiveHandler_GetFileContent_NotFound(t *testing.T) {
	svc := new(MockArchiveService)
	handler := NewArchiveHandler(svc)

	svc.On("GetFileContent", mock.Anything, "missing").
		Return(nil, domain.DocumentNotFoundError("get file", "missing", nil))

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/vector-files/missing", nil), "*", "missing")
	w := httptest.NewRecorder()

	handler.GetFileContent(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveHandler_GetFileContent_MissingID(t *testing.T) {
	handler := NewArchiveHandler(new(MockArchiveService))

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/vector-files/", nil), "*", "")
	w := httptest.NewRecorder()

	handler.GetFileContent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
