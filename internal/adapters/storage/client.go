package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`

// MinIOService implements ImageStore using MinIO.
type MinIOService struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	maxFileSize   int64
}

// NewMinIOService creates the client. Call EnsureBucket before first use.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	base := strings.TrimRight(cfg.GetMinIOPublicBaseURL(), "/")
	if base == "" {
		scheme := "http"
		if cfg.GetMinIOUseSSL() {
			scheme = "https"
		}
		base = scheme + "://" + cfg.GetMinIOEndpoint()
	}

	return &MinIOService{
		client:        client,
		bucket:        cfg.GetMinioBucketCatalogImages(),
		publicBaseURL: base,
		maxFileSize:   cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucket creates the image bucket if needed and makes its objects publicly readable.
func (s *MinIOService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucket, fmt.Sprintf(publicReadPolicy, s.bucket)); err != nil {
		return fmt.Errorf("failed to set bucket policy on %s: %w", s.bucket, err)
	}
	return nil
}

// Validate checks content type and size against the configured limit.
func (s *MinIOService) Validate(contentType string, size int64) error {
	return ValidateImage(contentType, size, s.maxFileSize)
}

// Upload stores the image and returns its public URL.
func (s *MinIOService) Upload(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if err := s.Validate(contentType, size); err != nil {
		return "", err
	}

	key := ObjectKey(folder, fileName, contentType, uuid.New())
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  normalizeContentType(contentType),
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Delete removes the object behind a URL produced by Upload.
func (s *MinIOService) Delete(ctx context.Context, publicURL string) error {
	key, ok := s.keyFromURL(publicURL)
	if !ok {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL for an object key.
func (s *MinIOService) PublicURL(key string) string {
	return s.publicBaseURL + "/" + s.bucket + "/" + key
}

func (s *MinIOService) keyFromURL(publicURL string) (string, bool) {
	prefix := s.publicBaseURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, prefix)
	return key, key != ""
}

// ObjectKey builds "folder/slug-xxxxxxxx.ext" from an uploaded file name.
// The extension follows the content type, not the client's file name.
func ObjectKey(folder, fileName, contentType string, id uuid.UUID) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	slug := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" {
		slug = "image"
	}
	if len(slug) > 48 {
		slug = slug[:48]
	}
	ext := allowedImageTypes[normalizeContentType(contentType)]
	name := slug + "-" + id.String()[:8] + ext
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
