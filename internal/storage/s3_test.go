package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/faqd/internal/domain"
)

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>faqd-archive</Name>
  <Prefix>faq/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>2</MaxKeys>
  <IsTruncated>true</IsTruncated>
  <Contents><Key>faq/a.json</Key><LastModified>2024-01-01T00:00:00.000Z</LastModified><Size>12</Size></Contents>
  <Contents><Key>faq/b.txt</Key><LastModified>2024-01-02T00:00:00.000Z</LastModified><Size>7</Size></Contents>
</ListBucketResult>`

const noSuchKeyResponse = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

func newFakeS3(t *testing.T, handler http.HandlerFunc) *S3Archive {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	archive, err := NewS3Archive(context.Background(), S3ClientConfig{
		Endpoint:        server.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Bucket:          "faqd-archive",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return archive
}

func TestS3Archive_ListFiles(t *testing.T) {
	archive := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/faqd-archive", r.URL.Path)
		assert.Equal(t, "faq/", r.URL.Query().Get("prefix"))
		assert.Equal(t, "2", r.URL.Query().Get("max-keys"))
		assert.Equal(t, "faq/0.json", r.URL.Query().Get("start-after"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(listResponse))
	})

	page, err := archive.ListFiles(context.Background(), "faq", 2, "faq/0.json")

	require.NoError(t, err)
	require.Len(t, page.Files, 2)
	assert.Equal(t, "faq/a.json", page.Files[0].ID)
	assert.Equal(t, "a.json", page.Files[0].Filename)
	assert.Equal(t, int64(12), page.Files[0].Bytes)
	assert.Equal(t, "faq", page.Files[0].CollectionID)
	assert.True(t, page.HasMore)
	assert.Equal(t, "faq/b.txt", page.LastID)
}

func TestS3Archive_GetFile_NotFound(t *testing.T) {
	archive := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusNotFound)
	})

	file, err := archive.GetFile(context.Background(), "faq/missing.json")

	assert.Nil(t, file)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestS3Archive_GetFileBytes(t *testing.T) {
	archive := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/faqd-archive/faq/a.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"a":1}`))
	})

	data, err := archive.GetFileBytes(context.Background(), "faq/a.json")

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestS3Archive_GetFileBytes_NoSuchKey(t *testing.T) {
	archive := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(noSuchKeyResponse))
	})

	data, err := archive.GetFileBytes(context.Background(), "faq/missing.json")

	assert.Nil(t, data)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestS3Archive_Unavailable(t *testing.T) {
	archive := newFakeS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
	})

	_, err := archive.GetFileBytes(context.Background(), "faq/a.json")

	assert.ErrorIs(t, err, domain.ErrArchiveUnavailable)
}

func TestCollectionPrefix(t *testing.T) {
	assert.Equal(t, "", collectionPrefix(""))
	assert.Equal(t, "faq/", collectionPrefix("faq"))
	assert.Equal(t, "faq/", collectionPrefix("faq/"))
}

func TestClassifyError(t *testing.T) {
	assert.ErrorIs(t, classifyError("get", "k", &types.NoSuchKey{}), domain.ErrDocumentNotFound)
	assert.ErrorIs(t, classifyError("get", "k", &types.NotFound{}), domain.ErrDocumentNotFound)

	err := classifyError("get", "k", assert.AnError)
	assert.ErrorIs(t, err, domain.ErrArchiveUnavailable)
	assert.True(t, strings.Contains(err.Error(), "get k"))
}
