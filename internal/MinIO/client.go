package MinIO

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	MinioEndpoint  string `env:"MINIO_ENDPOINT" env-default:"minio:9000"`
	BucketName     string `env:"MINIO_BUCKET_NAME" env-default:"materials"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" env-default:"admin"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" env-default:""`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

// MinIOClient stores uploaded documents in an object bucket instead of the
// local upload directory. Objects are keyed by generated stored name.
type MinIOClient struct {
	Client *minio.Client
	Bucket string
}

func New(ctx context.Context, cfg Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.BucketName)
		if !(errBucketExists == nil && exists) {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.BucketName, err)
		}
	}

	return &MinIOClient{
		Client: client,
		Bucket: cfg.BucketName,
	}, nil
}

func (m *MinIOClient) SaveFile(ctx context.Context, storedName string, reader io.Reader, size int64) error {
	_, err := m.Client.PutObject(ctx, m.Bucket, storedName, reader, size, minio.PutObjectOptions{})
	return err
}

func (m *MinIOClient) OpenFile(ctx context.Context, storedName string) (io.ReadCloser, error) {
	obj, err := m.Client.GetObject(ctx, m.Bucket, storedName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; surface a missing object here, not on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (m *MinIOClient) DeleteFile(ctx context.Context, storedName string) error {
	return m.Client.RemoveObject(ctx, m.Bucket, storedName, minio.RemoveObjectOptions{})
}
