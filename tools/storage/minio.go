package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	minioCredentials "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

type minioAPI struct {
	cfg    *config.Config
	log    logger.Logger
	client *minio.Client
}

// newMinioAPI - binds the uploader through the minio client, which also
// speaks the S3-compatible API the storage provider exposes.
func newMinioAPI(cfg *config.Config, log logger.Logger) (objectAPI, error) {
	endpoint := fmt.Sprintf("%s.r2.cloudflarestorage.com", cfg.R2AccountId)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  minioCredentials.NewStaticV4(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		Secure: true,
	})
	if err != nil {
		log.Error("Error while creating minio client: ", logger.Error(err))
		return nil, err
	}

	return &minioAPI{
		cfg:    cfg,
		log:    log,
		client: client,
	}, nil
}

func (m *minioAPI) Put(ctx context.Context, key, localPath, contentType string) error {
	_, err := m.client.FPutObject(ctx, m.cfg.R2Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})

	return err
}

func (m *minioAPI) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.cfg.R2Bucket, key, minio.RemoveObjectOptions{})
}
