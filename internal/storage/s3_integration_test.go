//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/testutil"
)

func TestIntegration_S3Archive(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer func() { _ = rc.Terminate(ctx) }()

	archive, err := NewS3Archive(ctx, S3ClientConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "faqd-archive",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, archive.EnsureBucket(ctx))

	require.NoError(t, archive.PutObject(ctx, "faq/a.json", []byte(`{"a":1}`), "application/json"))
	require.NoError(t, archive.PutObject(ctx, "faq/b.txt", []byte("plain"), "text/plain"))

	t.Run("list", func(t *testing.T) {
		page, err := archive.ListFiles(ctx, "faq", 1, "")
		require.NoError(t, err)
		require.Len(t, page.Files, 1)
		assert.True(t, page.HasMore)

		next, err := archive.ListFiles(ctx, "faq", 1, page.LastID)
		require.NoError(t, err)
		require.Len(t, next.Files, 1)
		assert.NotEqual(t, page.Files[0].ID, next.Files[0].ID)
	})

	t.Run("metadata and bytes", func(t *testing.T) {
		file, err := archive.GetFile(ctx, "faq/a.json")
		require.NoError(t, err)
		assert.Equal(t, int64(7), file.Bytes)
		assert.Equal(t, "application/json", file.ContentType)

		data, err := archive.GetFileBytes(ctx, "faq/a.json")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(data))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := archive.GetFile(ctx, "faq/missing.json")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

		require.NoError(t, archive.DeleteObject(ctx, "faq/b.txt"))
		_, err = archive.GetFileBytes(ctx, "faq/b.txt")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}
