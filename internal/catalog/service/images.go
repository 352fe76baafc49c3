package service

import (
	"context"
	"io"

	"tentquote_backend/internal/catalog/transport"
	"tentquote_backend/platform/apperr"
)

const imageFolder = "catalog"

// UploadImage stores a catalog image and returns the URL to put on a
// product or tent type.
func (s *Service) UploadImage(ctx context.Context, fileName, contentType string, reader io.Reader, size int64) (transport.ImageUploadResponse, error) {
	if s.images == nil {
		return transport.ImageUploadResponse{}, apperr.Persistence("image storage is not configured", nil).
			WithOp("catalog.upload_image")
	}
	if err := s.images.Validate(contentType, size); err != nil {
		return transport.ImageUploadResponse{}, err
	}

	url, err := s.images.Upload(ctx, imageFolder, fileName, contentType, reader, size)
	if err != nil {
		return transport.ImageUploadResponse{}, apperr.Persistence("failed to store image", err).
			WithOp("catalog.upload_image")
	}

	s.log.Info("catalog image uploaded", "url", url, "size", size)
	return transport.ImageUploadResponse{URL: url}, nil
}
