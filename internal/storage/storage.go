package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/linxGnu/goseaweedfs"

	"restaurant-media-organizer/internal/config"
)

// StorageProvider represents the type of storage being used
type StorageProvider string

const (
	SeaweedFS StorageProvider = "seaweedfs"
	S3        StorageProvider = "s3"
)

// Storage holds media objects under their storage path. Keys are the
// storage paths recorded on each image row.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// S3Storage implements Storage on an S3 compatible bucket.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// Put uploads r under key.
func (s *S3Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Body:   r,
		Bucket: aws.String(s.bucket),
		Key:    aws.String(cleanKey(key)),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return nil
}

// Copy duplicates srcKey to dstKey inside the bucket.
func (s *S3Storage) Copy(ctx context.Context, srcKey, dstKey string) error {
	source := s.bucket + "/" + escapeKey(cleanKey(srcKey))
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(source),
		Key:        aws.String(cleanKey(dstKey)),
	})
	if err != nil {
		return fmt.Errorf("failed to copy %s in S3: %w", srcKey, err)
	}
	return nil
}

// Delete deletes a file from S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(cleanKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for a file in S3
func (s *S3Storage) PublicURL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.publicURL, "/"), cleanKey(key))
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, cleanKey(key))
}

// SeaweedFSStorage implements Storage on a SeaweedFS filer. The filer API
// takes no context, so cancellation is only checked between calls.
type SeaweedFSStorage struct {
	filer      *goseaweedfs.Filer
	collection string
	publicURL  string
}

// Put uploads r under key.
func (s *SeaweedFSStorage) Put(ctx context.Context, key string, r io.Reader, size int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// the filer client needs the full size up front
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if _, err := s.filer.Upload(bytes.NewReader(data), int64(len(data)), "/"+cleanKey(key), s.collection, ""); err != nil {
		return fmt.Errorf("failed to upload to SeaweedFS: %w", err)
	}
	return nil
}

// Copy reads srcKey back from the filer and writes it under dstKey.
func (s *SeaweedFSStorage) Copy(ctx context.Context, srcKey, dstKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, status, err := s.filer.Get("/"+cleanKey(srcKey), url.Values{}, nil)
	if err != nil {
		return fmt.Errorf("failed to download %s from SeaweedFS: %w", srcKey, err)
	}
	if status >= 300 {
		return fmt.Errorf("failed to download %s from SeaweedFS: status %d", srcKey, status)
	}
	return s.Put(ctx, dstKey, bytes.NewReader(data), int64(len(data)), "")
}

// Delete deletes a file from SeaweedFS
func (s *SeaweedFSStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.filer.Delete("/"+cleanKey(key), url.Values{}); err != nil {
		return fmt.Errorf("failed to delete file from SeaweedFS: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for a file in SeaweedFS
func (s *SeaweedFSStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.publicURL, "/"), cleanKey(key))
}

// NewStorage creates the provider selected by cfg.Provider.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch StorageProvider(cfg.Provider) {
	case S3:
		return NewS3Storage(cfg.S3)
	case SeaweedFS:
		return NewSeaweedFSStorage(cfg.SeaweedFS)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg config.S3Config) (*S3Storage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("s3 storage requires AWS_BUCKET_NAME")
	}

	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}, nil
}

// loadAWSConfig uses the static keys when configured and the default
// credential chain (env, shared config, instance role) otherwise.
func loadAWSConfig(cfg config.S3Config) (aws.Config, error) {
	if cfg.AccessKeyID != "" {
		return aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// NewSeaweedFSStorage creates a new SeaweedFS storage instance
func NewSeaweedFSStorage(cfg config.SeaweedFSConfig) (*SeaweedFSStorage, error) {
	filer, err := goseaweedfs.NewFiler(cfg.FilerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SeaweedFS client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = cfg.FilerURL
	}
	return &SeaweedFSStorage{
		filer:      filer,
		collection: cfg.Collection,
		publicURL:  publicURL,
	}, nil
}

// cleanKey normalizes a storage path into an object key without a leading
// slash.
func cleanKey(key string) string {
	return strings.TrimPrefix(path.Clean("/"+key), "/")
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
