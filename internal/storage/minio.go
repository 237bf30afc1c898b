package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultContentType = "application/octet-stream"

// ClientMinio is the subset of *minio.Client used by MinioImageStore.
type ClientMinio interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioImageStore struct {
	bucketName string
	client     ClientMinio
}

func NewMinioImageStore(endpoint, accessKeyID, secretAccessKey, bucketName string, useSSL bool) (*MinioImageStore, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", endpoint, err)
	}
	return NewMinioImageStoreWithClient(minioClient, bucketName), nil
}

func NewMinioImageStoreWithClient(client ClientMinio, bucketName string) *MinioImageStore {
	return &MinioImageStore{bucketName: bucketName, client: client}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucketName, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucketName, err)
	}
	log.Printf("created bucket %s", s.bucketName)
	return nil
}

func (s *MinioImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	if _, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucketName, key, PresignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return presignedURL.String(), nil
}

func (s *MinioImageStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("failed to remove %s/%s: %v", s.bucketName, key, err)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
