package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ListEntry is one item of a listing page. Directory markers (common
// prefixes from a delimited listing) carry IsPrefix=true and no metadata.
type ListEntry struct {
	Key          string
	IsPrefix     bool
	Size         *int64
	LastModified *time.Time
	// ETag is the content fingerprint with surrounding quotes stripped.
	// Empty means the backend did not report one, never "empty content".
	ETag string
}

// ListPage is one page of a paginated listing.
type ListPage struct {
	Entries               []ListEntry
	Truncated             bool
	NextContinuationToken string
}

// ListPageOptions configures a single ListPage call.
type ListPageOptions struct {
	// Prefix scopes the listing to keys under this value.
	Prefix string
	// Recursive disables the "/" delimiter, flattening the key space.
	Recursive bool
	// ContinuationToken resumes from a previous page. Empty starts over.
	ContinuationToken string
	// MaxKeys limits page size; zero uses the backend default (1000).
	MaxKeys int32
}

// ObjectMeta is the metadata subset returned by stat and put operations.
type ObjectMeta struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
	ContentType  string
}

// Client defines the storage operations the reconciliation core depends on.
// Implementations wrap one concrete backend; tests substitute in-memory fakes.
type Client interface {
	// BucketExists checks if a bucket exists and is reachable.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// ListPage fetches one page of a listing. The caller follows
	// NextContinuationToken until Truncated is false.
	ListPage(ctx context.Context, bucket string, opts ListPageOptions) (ListPage, error)
	// StatObject fetches metadata for a single key.
	StatObject(ctx context.Context, bucket, key string) (ObjectMeta, error)
	// GetObject reads the full content of a key.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	// PutObject writes content under a key.
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (ObjectMeta, error)
	// RemoveObject deletes a key.
	RemoveObject(ctx context.Context, bucket, key string) error
	// PresignedGet returns a time-limited download URL for a key.
	PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// NewClient creates an S3 client from the configuration.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &s3Client{
		api:      api,
		presign:  s3.NewPresignClient(api),
		callTime: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// normalizeEndpoint ensures the endpoint carries a scheme; a bare host:port
// gets one derived from the SSL flag.
func normalizeEndpoint(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

type s3Client struct {
	api      *s3.Client
	presign  *s3.PresignClient
	callTime time.Duration
}

// opCtx applies the per-call deadline. Every remote call gets its own
// timeout so a stalled connection surfaces as a retryable error instead
// of hanging the pipeline.
func (c *s3Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTime <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTime)
}

func (c *s3Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head bucket %s: %w", bucket, err)
	}
	return true, nil
}

func (c *s3Client) ListPage(ctx context.Context, bucket string, opts ListPageOptions) (ListPage, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if !opts.Recursive {
		input.Delimiter = aws.String("/")
	}
	if opts.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(opts.MaxKeys)
	}
	if opts.ContinuationToken != "" {
		input.ContinuationToken = aws.String(opts.ContinuationToken)
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return ListPage{}, fmt.Errorf("list %s/%s: %w", bucket, opts.Prefix, err)
	}

	page := ListPage{
		Truncated:             aws.ToBool(out.IsTruncated),
		NextContinuationToken: aws.ToString(out.NextContinuationToken),
	}

	for _, p := range out.CommonPrefixes {
		page.Entries = append(page.Entries, ListEntry{
			Key:      aws.ToString(p.Prefix),
			IsPrefix: true,
		})
	}
	for _, obj := range out.Contents {
		page.Entries = append(page.Entries, ListEntry{
			Key:          aws.ToString(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         trimETag(aws.ToString(obj.ETag)),
		})
	}

	return page, nil
}

func (c *s3Client) StatObject(ctx context.Context, bucket, key string) (ObjectMeta, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("head object %s/%s: %w", bucket, key, err)
	}

	meta := ObjectMeta{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ETag:        trimETag(aws.ToString(out.ETag)),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

func (c *s3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

func (c *s3Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (ObjectMeta, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := c.api.PutObject(ctx, input)
	if err != nil {
		return ObjectMeta{}, fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	return ObjectMeta{
		Key:          key,
		Size:         int64(len(data)),
		ETag:         trimETag(aws.ToString(out.ETag)),
		LastModified: time.Now(),
		ContentType:  contentType,
	}, nil
}

func (c *s3Client) RemoveObject(ctx context.Context, bucket, key string) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (c *s3Client) PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign get %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// trimETag strips the quotes S3 wraps around entity tags.
func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}
