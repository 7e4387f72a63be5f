package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stagekit/greenroom-api/internal/config"
	"github.com/stagekit/greenroom-api/internal/logger"
)

// Store abstracts the object storage used for submitted files. Handlers and
// services depend on this interface, not on the MinIO client directly.
type Store interface {
	Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
	PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// MinioStore implements Store on top of a MinIO (or S3-compatible) bucket
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	storeLog := logger.Service("objectstore")

	client, err := minio.New(cfg.ObjectStore.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ObjectStore.AccessKey, cfg.ObjectStore.SecretKey, ""),
		Secure: cfg.ObjectStore.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.ObjectStore.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.ObjectStore.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.ObjectStore.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.ObjectStore.Bucket, err)
		}
		storeLog.Info("Created object store bucket", "bucket", cfg.ObjectStore.Bucket)
	}

	storeLog.Info("Object store connected", "endpoint", cfg.ObjectStore.Endpoint, "bucket", cfg.ObjectStore.Bucket)

	return &MinioStore{
		client: client,
		bucket: cfg.ObjectStore.Bucket,
		log:    storeLog,
	}, nil
}

// Put uploads an object under the given key
func (s *MinioStore) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	s.log.Debug("Uploading object", "key", objectKey, "size", size, "contentType", contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("Failed to upload object", "key", objectKey, "error", err)
		return fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	return nil
}

// Remove deletes the stored object
func (s *MinioStore) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("Failed to remove object", "key", objectKey, "error", err)
		return fmt.Errorf("failed to remove object %s: %w", objectKey, err)
	}

	s.log.Debug("Removed object", "key", objectKey)
	return nil
}

// PresignedGetURL returns a temporary download URL for the stored object
func (s *MinioStore) PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, nil)
	if err != nil {
		s.log.Error("Failed to presign object URL", "key", objectKey, "error", err)
		return "", fmt.Errorf("failed to presign URL for object %s: %w", objectKey, err)
	}
	return u.String(), nil
}
