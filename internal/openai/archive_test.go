package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloo-solutions/faqd/internal/domain"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockArchiveAPI struct {
	mock.Mock
}

func (m *MockArchiveAPI) ListVectorStoreFiles(ctx context.Context, vectorStoreID string, pagination openai.Pagination) (openai.VectorStoreFilesList, error) {
	args := m.Called(ctx, vectorStoreID, pagination)
	return args.Get(0).(openai.VectorStoreFilesList), args.Error(1)
}

func (m *MockArchiveAPI) GetFile(ctx context.Context, fileID string) (openai.File, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(openai.File), args.Error(1)
}

func (m *MockArchiveAPI) GetFileContent(ctx context.Context, fileID string) (openai.RawResponse, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(openai.RawResponse), args.Error(1)
}

func TestArchiveClient_ListFiles(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	lastID := "file-2"
	mockAPI.On("ListVectorStoreFiles", ctx, "vs_123", mock.MatchedBy(func(p openai.Pagination) bool {
		return p.Limit != nil && *p.Limit == 2 && p.After != nil && *p.After == "file-0"
	})).Return(openai.VectorStoreFilesList{
		VectorStoreFiles: []openai.VectorStoreFile{
			{ID: "file-1", VectorStoreID: "vs_123", UsageBytes: 10, Status: "completed", CreatedAt: 1700000000},
			{ID: "file-2", VectorStoreID: "vs_123", UsageBytes: 20, Status: "completed", CreatedAt: 1700000100},
		},
		LastID:  &lastID,
		HasMore: true,
	}, nil)

	page, err := archive.ListFiles(ctx, "vs_123", 2, "file-0")

	require.NoError(t, err)
	require.Len(t, page.Files, 2)
	assert.Equal(t, "file-1", page.Files[0].ID)
	assert.Equal(t, "vs_123", page.Files[0].CollectionID)
	assert.Equal(t, int64(20), page.Files[1].Bytes)
	assert.Equal(t, int64(1700000000), page.Files[0].CreatedAt.Unix())
	assert.True(t, page.HasMore)
	assert.Equal(t, "file-2", page.LastID)
	mockAPI.AssertExpectations(t)
}

func TestArchiveClient_ListFiles_DefaultLimit(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("ListVectorStoreFiles", ctx, "vs_123", mock.MatchedBy(func(p openai.Pagination) bool {
		return p.Limit != nil && *p.Limit == DefaultListLimit && p.After == nil
	})).Return(openai.VectorStoreFilesList{}, nil)

	page, err := archive.ListFiles(ctx, "vs_123", 0, "")

	require.NoError(t, err)
	assert.Empty(t, page.Files)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.LastID)
}

func TestArchiveClient_ListFiles_Unavailable(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("ListVectorStoreFiles", ctx, "vs_123", mock.Anything).
		Return(openai.VectorStoreFilesList{}, errors.New("dial tcp: connection refused"))

	page, err := archive.ListFiles(ctx, "vs_123", 10, "")

	assert.Nil(t, page)
	assert.ErrorIs(t, err, domain.ErrArchiveUnavailable)
}

func TestArchiveClient_GetFile(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("GetFile", ctx, "file-1").Return(openai.File{
		ID:        "file-1",
		FileName:  "faq.json",
		Bytes:     42,
		Status:    "processed",
		Purpose:   "assistants",
		CreatedAt: 1700000000,
	}, nil)

	file, err := archive.GetFile(ctx, "file-1")

	require.NoError(t, err)
	assert.Equal(t, "faq.json", file.Filename)
	assert.Equal(t, int64(42), file.Bytes)
	assert.Equal(t, "assistants", file.Purpose)
}

func TestArchiveClient_GetFile_NotFound(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("GetFile", ctx, "missing").
		Return(openai.File{}, &openai.APIError{HTTPStatusCode: http.StatusNotFound, Message: "No such File object"})

	file, err := archive.GetFile(ctx, "missing")

	assert.Nil(t, file)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestArchiveClient_GetFile_ServerError(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("GetFile", ctx, "file-1").
		Return(openai.File{}, &openai.APIError{HTTPStatusCode: http.StatusBadGateway, Message: "bad gateway"})

	_, err := archive.GetFile(ctx, "file-1")

	assert.ErrorIs(t, err, domain.ErrArchiveUnavailable)
	assert.NotErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestArchiveClient_GetFileBytes(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("GetFileContent", ctx, "file-1").
		Return(openai.RawResponse{ReadCloser: io.NopCloser(strings.NewReader(`{"a":1}`))}, nil)

	data, err := archive.GetFileBytes(ctx, "file-1")

	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), data)
}

func TestArchiveClient_GetFileBytes_NotFound(t *testing.T) {
	mockAPI := new(MockArchiveAPI)
	archive := NewArchiveClient(mockAPI)
	ctx := context.Background()

	mockAPI.On("GetFileContent", ctx, "missing").
		Return(openai.RawResponse{}, &openai.RequestError{HTTPStatusCode: http.StatusNotFound, Err: errors.New("not found")})

	data, err := archive.GetFileBytes(ctx, "missing")

	assert.Nil(t, data)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestArchiveClient_GetFile_HTTPNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/file-404", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"No such File object: file-404","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	archive := NewArchiveClient(NewAPIClient(Config{APIKey: "test-key", BaseURL: server.URL}))

	_, err := archive.GetFile(context.Background(), "file-404")

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
