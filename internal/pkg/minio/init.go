package minio

import (
	"Bandwall/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// MainBucket 帖子图片存储桶
	MainBucket string
)

const abortUploadRuleID = "AbortIncompleteUploadRule"

// Init 初始化 MinIO 客户端并确保存储桶可用
func Init(ctx context.Context, cfg config.MinIOConfig) error {
	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MainBucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MainBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MainBucket, err)
		}
		log.Info("minio bucket created", "bucket", cfg.MainBucket)
	}

	Client = client
	MainBucket = cfg.MainBucket
	return ensureAbortUploadLifecycle(ctx)
}

// ensureAbortUploadLifecycle 清理中断的分片上传，避免残留碎片占用空间
func ensureAbortUploadLifecycle(ctx context.Context) error {
	lcConfig, err := Client.GetBucketLifecycle(ctx, MainBucket)
	if err != nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	for _, rule := range lcConfig.Rules {
		if rule.ID == abortUploadRuleID && rule.Status == "Enabled" {
			return nil
		}
	}

	lcConfig.Rules = append(lcConfig.Rules, lifecycle.Rule{
		ID:     abortUploadRuleID,
		Status: "Enabled",
		AbortIncompleteMultipartUpload: lifecycle.AbortIncompleteMultipartUpload{
			DaysAfterInitiation: 1,
		},
	})
	if err := Client.SetBucketLifecycle(ctx, MainBucket, lcConfig); err != nil {
		return fmt.Errorf("set bucket lifecycle: %w", err)
	}
	log.Info("minio lifecycle rule applied", "bucket", MainBucket, "rule", abortUploadRuleID)
	return nil
}
