// internal/storage/archive.go
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/restockd/restockd/internal/config"
)

// ReportArchive uploads generated report snapshots to long-term storage.
type ReportArchive interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// MinioArchive implements ReportArchive against any S3-compatible endpoint.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive builds a MinioArchive from app config.
func NewMinioArchive(cfg config.AppConfig) (*MinioArchive, error) {
	if cfg.ArchiveEndpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.ArchiveAccessKey == "" || cfg.ArchiveSecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.ArchiveBucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	client, err := minio.New(cfg.ArchiveEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, ""),
		Secure: cfg.ArchiveUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create archive client: %w", err)
	}

	return &MinioArchive{client: client, bucket: cfg.ArchiveBucket}, nil
}

// Upload stores a report snapshot under the given object key.
func (a *MinioArchive) Upload(ctx context.Context, key string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("archive upload %s: %w", key, err)
	}
	return nil
}

var _ ReportArchive = (*MinioArchive)(nil)

// NoopArchive discards uploads; used when no archive is configured.
type NoopArchive struct{}

func (NoopArchive) Upload(ctx context.Context, key string, data []byte) error {
	return nil
}

var _ ReportArchive = NoopArchive{}
