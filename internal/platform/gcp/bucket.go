package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// ErrObjectNotFound is returned by Download when the key does not exist.
var ErrObjectNotFound = errors.New("gcs object not found")

type BucketService interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
	Close() error
}

type bucketService struct {
	log       *logger.Logger
	client    *storage.Client
	bucket    string
	cdnDomain string

	publicBase string
}

func NewBucketService(ctx context.Context, log *logger.Logger, cfg StorageConfig, bucket, cdnDomain string) (BucketService, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("missing bucket name")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	bs := &bucketService{
		log:       log.With("service", "BucketService"),
		client:    client,
		bucket:    bucket,
		cdnDomain: strings.TrimSpace(cdnDomain),
	}
	if cfg.Emulated() {
		bs.publicBase = strings.TrimRight(cfg.EmulatorHost, "/")
	}
	bs.log.Info("bucket ready", "bucket", bucket, "mode", string(cfg.Mode))
	return bs, nil
}

func newStorageClient(ctx context.Context, cfg StorageConfig) (*storage.Client, error) {
	if cfg.Emulated() {
		// The storage client only honors the emulator through this variable.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
	}
	return storage.NewClient(ctx, cfg.ClientOptions()...)
}

func (bs *bucketService) Upload(ctx context.Context, key string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.client.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	bs.log.Debug("object uploaded", "bucket", bs.bucket, "key", key)
	return nil
}

func (bs *bucketService) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := bs.client.Bucket(bs.bucket).Object(key).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrObjectNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %q: %w", key, err)
	}
}

// Download returns a reader whose Close also releases the request deadline.
func (bs *bucketService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	r, err := bs.client.Bucket(bs.bucket).Object(key).NewReader(ctx)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *bucketService) PublicURL(key string) string {
	if bs.publicBase != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", bs.publicBase, bs.bucket, url.PathEscape(key))
	}
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucket, key)
}

func (bs *bucketService) Close() error {
	return bs.client.Close()
}

type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(strings.TrimSpace(key))) {
	case ".png":
		return "image/png"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".json":
		return "application/json"
	default:
		return ""
	}
}
