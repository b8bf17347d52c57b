package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/config"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// imageFolder 对象存储中的目录前缀
const imageFolder = "clientiq"

// ObjectStore S3 兼容的图片存储
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewObjectStore 创建图片存储，未配置时返回 nil
func NewObjectStore(cfg config.ImageStoreConfig) (*ObjectStore, error) {
	if !cfg.Configured() {
		utils.Logger.Info().Msg("图片存储未配置，上传功能不可用")
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create image store client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &ObjectStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload 保存图片并返回公开访问地址
func (s *ObjectStore) Upload(ctx context.Context, data []byte, contentType, extension string) (string, error) {
	name := ObjectName(time.Now(), uuid.NewString(), extension)
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.publicURL + "/" + name, nil
}

// ObjectName 按日期分目录的对象名
func ObjectName(now time.Time, id, extension string) string {
	return path.Join(imageFolder, now.UTC().Format("2006/01/02"), id+extension)
}
