package minio

import (
	"Bandwall/internal/api/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

var ErrNotInitialized = errors.New("minio client is not initialized")

// ObjectStore 帖子图片存储
type ObjectStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewObjectStore(client *minio.Client, bucket string, cfg config.MinIOConfig) *ObjectStore {
	return &ObjectStore{
		client:  client,
		bucket:  bucket,
		baseURL: publicBaseURL(cfg, bucket),
	}
}

// Put 上传对象
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.client == nil {
		return ErrNotInitialized
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Delete 删除对象
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return ErrNotInitialized
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL 获取对象的公共访问URL
func (s *ObjectStore) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

func publicBaseURL(cfg config.MinIOConfig, bucket string) string {
	endpoint := cfg.ExternalEndpoint
	useSSL := cfg.ExternalUseSSL
	if endpoint == "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	}

	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s", protocol, strings.TrimSuffix(endpoint, "/"), bucket)
}
