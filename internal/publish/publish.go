package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
)

const contentTypeJSON = "application/json"

var (
	ErrNotConfigured = errors.New("publish target not configured")
	errOutsideRoot   = errors.New("path outside data directory")
)

// Publisher uploads a written output file somewhere other consumers can read it.
type Publisher interface {
	Publish(ctx context.Context, path string) error
}

// objectStore is the subset of *minio.Client the publisher uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioPublisher uploads files to an S3-compatible bucket, keyed by their
// path relative to the data directory.
type MinioPublisher struct {
	client objectStore
	bucket string
	prefix string
	root   string
	logger *slog.Logger
}

// NewMinio builds a publisher for cfg. root is the data directory uploads are
// keyed against.
func NewMinio(cfg config.PublishConfig, root string, logger *slog.Logger) (*MinioPublisher, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return newWithStore(client, cfg.Bucket, cfg.Prefix, root, logger), nil
}

func newWithStore(store objectStore, bucket, prefix, root string, logger *slog.Logger) *MinioPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MinioPublisher{
		client: store,
		bucket: bucket,
		prefix: normalizePrefix(prefix),
		root:   root,
		logger: logger,
	}
}

// EnsureBucket creates the target bucket when it does not exist yet.
func (p *MinioPublisher) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", p.bucket, err)
	}
	logging.Info(p.logger, "created publish bucket", "bucket", p.bucket)
	return nil
}

// Publish uploads the file at filePath.
func (p *MinioPublisher) Publish(ctx context.Context, filePath string) error {
	key, err := p.ObjectKey(filePath)
	if err != nil {
		return err
	}
	info, err := p.client.FPutObject(ctx, p.bucket, key, filePath, minio.PutObjectOptions{
		ContentType: contentTypeJSON,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	logging.FromContext(ctx, p.logger).Debug("published file",
		logging.FieldPath, key,
		"bucket", p.bucket,
		"size", info.Size,
	)
	return nil
}

// ObjectKey maps a file under the data directory to its bucket key.
func (p *MinioPublisher) ObjectKey(filePath string) (string, error) {
	rel, err := filepath.Rel(p.root, filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, filePath)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, filePath)
	}
	return p.prefix + rel, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return path.Clean(prefix) + "/"
}
