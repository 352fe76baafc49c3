// Package storage is the blob store for catalog images, backed by any
// S3-compatible server through MinIO.
package storage

import (
	"context"
	"io"
)

// ImageStore uploads images and hands back a URL anyone can load.
type ImageStore interface {
	// Upload stores the image under folder and returns its public URL.
	Upload(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	// Delete removes an image previously returned by Upload. Unknown URLs are ignored.
	Delete(ctx context.Context, publicURL string) error
	// Validate checks content type and size before any bytes are sent.
	Validate(contentType string, size int64) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOPublicBaseURL() string
	GetMinioBucketCatalogImages() string
	IsMinIOEnabled() bool
}
