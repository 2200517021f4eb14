package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const awsS3Endpoint = "s3.amazonaws.com"

// ErrStorageUnavailable is returned when uploads are attempted without a
// usable storage client.
var ErrStorageUnavailable = errors.New("storage client unavailable")

// ObjectStore is the write side of a key-based blob store.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// MinioStorage writes objects to S3 or a MinIO server. It never reads, lists
// or deletes.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(cfg *config.StorageConfig) (*MinioStorage, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials not found or incomplete")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Region: cfg.Region,
	}

	endpoint := cfg.Endpoint
	switch cfg.Type {
	case config.StorageTypeMinio:
		opts.Secure = cfg.UseSSL
	default:
		if endpoint == "" {
			endpoint = awsS3Endpoint
		}
		opts.Secure = true
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Bucket returns the bucket objects are written to.
func (s *MinioStorage) Bucket() string {
	return s.bucket
}

// PutObject writes the full content of reader under key.
func (s *MinioStorage) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// StorageProvider creates the process-wide store on first use and caches the
// outcome, including a failed initialisation.
type StorageProvider struct {
	once  sync.Once
	init  func() (ObjectStore, error)
	store ObjectStore
	err   error
}

func NewStorageProvider(init func() (ObjectStore, error)) *StorageProvider {
	return &StorageProvider{init: init}
}

// NewMinioStorageProvider wires the provider to NewMinioStorage.
func NewMinioStorageProvider(cfg *config.StorageConfig) *StorageProvider {
	return NewStorageProvider(func() (ObjectStore, error) {
		store, err := NewMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		slog.Info("storage client initialized",
			"type", cfg.Type,
			"bucket", cfg.Bucket,
			"region", cfg.Region,
		)
		return store, nil
	})
}

// Get returns the store, or the initialisation error wrapped in
// ErrStorageUnavailable.
func (p *StorageProvider) Get() (ObjectStore, error) {
	p.once.Do(func() {
		p.store, p.err = p.init()
		if p.err == nil && p.store == nil {
			p.err = errors.New("no storage client configured")
		}
		if p.err != nil {
			slog.Error("storage client initialization failed", "error", p.err)
		}
	})
	if p.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, p.err)
	}
	return p.store, nil
}
