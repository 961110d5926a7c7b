package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

// Uploader - possible actions with the object store. Everything an
// instance uploads is tracked so one CleanupAll at the end of a run
// removes it.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
	UploadMany(ctx context.Context, localPaths []string) (map[string]string, error)
	DeleteByURL(ctx context.Context, publicUrl string)
	DeleteByKey(ctx context.Context, key string)
	CleanupAll(ctx context.Context)
}

// objectAPI is the provider binding behind the uploader.
type objectAPI interface {
	Put(ctx context.Context, key, localPath, contentType string) error
	Delete(ctx context.Context, key string) error
}

type cloudUploader struct {
	cfg          *config.Config
	log          logger.Logger
	api          objectAPI
	publicDomain string

	mu       sync.Mutex
	uploaded map[string]struct{}
}

// NewUploader - returns the uploader for the configured storage type.
func NewUploader(cfg *config.Config, log logger.Logger) (Uploader, error) {
	var (
		api objectAPI
		err error
	)

	switch cfg.StorageType {
	case "minio":
		api, err = newMinioAPI(cfg, log)
	case "s3":
		api, err = newS3API(cfg, log)
	default:
		err = fmt.Errorf("invalid storage type: %s", cfg.StorageType)
	}

	if err != nil {
		return nil, err
	}

	return newUploaderWithAPI(cfg, log, api), nil
}

func newUploaderWithAPI(cfg *config.Config, log logger.Logger, api objectAPI) *cloudUploader {
	publicDomain := cfg.R2PublicDomain
	if publicDomain == "" {
		publicDomain = fmt.Sprintf("https://pub-%s.r2.dev", cfg.R2AccountId)
	}

	return &cloudUploader{
		cfg:          cfg,
		log:          log,
		api:          api,
		publicDomain: publicDomain,
		uploaded:     make(map[string]struct{}),
	}
}

// Upload - writes the file under a collision resistant key and returns
// its public URL. The key is recorded for later cleanup.
func (u *cloudUploader) Upload(ctx context.Context, localPath string) (string, error) {
	fileName := filepath.Base(localPath)
	key := fmt.Sprintf("%s/%d-%s", u.cfg.UploadKeyPrefix, time.Now().UnixMilli(), fileName)

	u.log.Info("[UPLOADING] ", logger.String("filepath", localPath), logger.String("key", key))

	err := u.api.Put(ctx, key, localPath, contentTypeFor(fileName))
	if err != nil {
		u.log.Error("Error while uploading to cloud storage", logger.Error(err))
		return "", &errs.UploadError{Path: localPath, Err: err}
	}

	u.mu.Lock()
	u.uploaded[key] = struct{}{}
	u.mu.Unlock()

	publicUrl := u.publicDomain + "/" + key
	u.log.Info("Object is uploaded", logger.String("url", publicUrl))
	return publicUrl, nil
}

// UploadMany - sequential convenience wrapper. The first failure aborts
// the batch; already uploaded objects stay in the registry for cleanup.
func (u *cloudUploader) UploadMany(ctx context.Context, localPaths []string) (map[string]string, error) {
	urls := make(map[string]string, len(localPaths))

	for _, path := range localPaths {
		publicUrl, err := u.Upload(ctx, path)
		if err != nil {
			return nil, err
		}
		urls[path] = publicUrl
	}

	return urls, nil
}

// DeleteByURL - best-effort single object delete by public URL. Cleanup
// must never mask the primary pipeline result, so errors are only
// logged.
func (u *cloudUploader) DeleteByURL(ctx context.Context, publicUrl string) {
	key := strings.TrimPrefix(publicUrl, u.publicDomain+"/")
	u.DeleteByKey(ctx, key)
}

// DeleteByKey - best-effort single object delete.
func (u *cloudUploader) DeleteByKey(ctx context.Context, key string) {
	if err := u.api.Delete(ctx, key); err != nil {
		u.log.Error("Error while deleting object", logger.String("key", key), logger.Error(err))
		return
	}

	u.mu.Lock()
	delete(u.uploaded, key)
	u.mu.Unlock()

	u.log.Info("Object is deleted", logger.String("key", key))
}

// CleanupAll - deletes every tracked key concurrently, waits for all
// deletes to settle and clears the registry. Safe on an empty registry
// and a no-op when called a second time.
func (u *cloudUploader) CleanupAll(ctx context.Context) {
	u.mu.Lock()
	keys := make([]string, 0, len(u.uploaded))
	for key := range u.uploaded {
		keys = append(keys, key)
	}
	u.uploaded = make(map[string]struct{})
	u.mu.Unlock()

	if len(keys) == 0 {
		return
	}

	u.log.Info("Cleaning up uploaded objects", logger.Int("count", len(keys)))

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := u.api.Delete(ctx, key); err != nil {
				u.log.Error("Error while deleting object", logger.String("key", key), logger.Error(err))
			}
		}(key)
	}
	wg.Wait()
}

// contentTypeFor - derives the MIME type from the file extension. The
// storage provider needs it set so the ffmpeg service fetches media with
// the right headers.
func contentTypeFor(fileName string) string {
	contentTypes := map[string]string{
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".avi":  "video/x-msvideo",
		".webm": "video/webm",
		".mkv":  "video/x-matroska",

		".mp3":  "audio/mpeg",
		".wav":  "audio/wav",
		".m4a":  "audio/mp4",
		".aac":  "audio/aac",
		".ogg":  "audio/ogg",
		".flac": "audio/flac",

		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".webp": "image/webp",

		".ttf":   "font/ttf",
		".otf":   "font/otf",
		".woff":  "font/woff",
		".woff2": "font/woff2",
	}

	if contentType, ok := contentTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return contentType
	}
	return "application/octet-stream"
}
