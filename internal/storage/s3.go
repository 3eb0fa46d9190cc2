package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/metrics"
)

// BackendName labels metrics for the S3 archive.
const BackendName = "s3"

// DefaultListLimit is the page size used when the caller does not pick one.
const DefaultListLimit = 20

// S3ClientConfig holds configuration for S3Archive
type S3ClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// S3Archive serves archived documents from an S3-compatible bucket (e.g., RustFS).
// A collection is a key prefix and a file id is the full object key.
type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive creates a new S3Archive with the given configuration
func NewS3Archive(ctx context.Context, cfg S3ClientConfig) (*S3Archive, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Archive{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// ListFiles returns one page of objects under the collection prefix.
func (a *S3Archive) ListFiles(ctx context.Context, collectionID string, limit int, after string) (page *domain.ArchiveFilePage, err error) {
	defer func() { metrics.ObserveArchiveRequest(BackendName, "list", err) }()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(a.bucket),
		Prefix:  aws.String(collectionPrefix(collectionID)),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if after != "" {
		input.StartAfter = aws.String(after)
	}

	output, err := a.client.ListObjectsV2(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.DocumentNotFoundError("list files", collectionID, err)
		}
		return nil, domain.ArchiveUnavailableError("list files", collectionID, err)
	}

	page = &domain.ArchiveFilePage{
		Files:   make([]*domain.ArchiveFile, 0, len(output.Contents)),
		HasMore: aws.ToBool(output.IsTruncated),
	}
	for _, obj := range output.Contents {
		key := aws.ToString(obj.Key)
		page.Files = append(page.Files, &domain.ArchiveFile{
			ID:           key,
			CollectionID: collectionID,
			Filename:     path.Base(key),
			Bytes:        aws.ToInt64(obj.Size),
			CreatedAt:    aws.ToTime(obj.LastModified).UTC(),
		})
	}
	if n := len(page.Files); n > 0 {
		page.LastID = page.Files[n-1].ID
	}

	return page, nil
}

// GetFile returns object metadata without downloading the body.
func (a *S3Archive) GetFile(ctx context.Context, fileID string) (file *domain.ArchiveFile, err error) {
	defer func() { metrics.ObserveArchiveRequest(BackendName, "metadata", err) }()

	output, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, classifyError("get file", fileID, err)
	}

	return &domain.ArchiveFile{
		ID:           fileID,
		CollectionID: strings.TrimSuffix(path.Dir(fileID), "."),
		Filename:     path.Base(fileID),
		Bytes:        aws.ToInt64(output.ContentLength),
		ContentType:  aws.ToString(output.ContentType),
		CreatedAt:    aws.ToTime(output.LastModified).UTC(),
	}, nil
}

// GetFileBytes downloads the object body.
func (a *S3Archive) GetFileBytes(ctx context.Context, fileID string) (data []byte, err error) {
	defer func() { metrics.ObserveArchiveRequest(BackendName, "content", err) }()

	output, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, classifyError("get file content", fileID, err)
	}
	defer output.Body.Close()

	data, err = io.ReadAll(output.Body)
	if err != nil {
		return nil, domain.ArchiveUnavailableError("read file content", fileID, err)
	}
	return data, nil
}

// PutObject stores a document under key. Used to seed the archive.
func (a *S3Archive) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// DeleteObject removes an object from storage
func (a *S3Archive) DeleteObject(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (a *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

func collectionPrefix(collectionID string) string {
	if collectionID == "" || strings.HasSuffix(collectionID, "/") {
		return collectionID
	}
	return collectionID + "/"
}

func classifyError(op, key string, err error) error {
	if isNotFound(err) {
		return domain.DocumentNotFoundError(op, key, err)
	}
	return domain.ArchiveUnavailableError(op, key, err)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket)
}
