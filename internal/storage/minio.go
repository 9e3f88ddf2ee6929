package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"Yatube/internal/config"
	"Yatube/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOImageStore keeps post images in one bucket under posts/.
type MinIOImageStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOImageStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOImageStore{client: client, bucket: cfg.Bucket}, nil
}

// ObjectKey derives a collision-free key that keeps the upload's extension.
func ObjectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("posts/%s%s", uuid.NewString(), ext)
}

func (m *MinIOImageStore) Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(filename)
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("image_upload_failed", err, map[string]any{
			"object_name":  key,
			"size":         size,
			"content_type": contentType,
			"bucket":       m.bucket,
		})
		return "", err
	}
	logger.Info("image_upload_success", map[string]any{
		"object_name": key,
		"size":        size,
		"bucket":      m.bucket,
	})
	return key, nil
}

func (m *MinIOImageStore) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
