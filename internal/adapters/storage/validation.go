package storage

import (
	"fmt"
	"strings"

	"tentquote_backend/platform/apperr"
)

// allowedImageTypes maps accepted MIME types to the extension stored.
// SVG is excluded because it can carry script.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func normalizeContentType(contentType string) string {
	return strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
}

// ValidateImage checks an upload against the allowed types and maxSize.
func ValidateImage(contentType string, size, maxSize int64) error {
	if _, ok := allowedImageTypes[normalizeContentType(contentType)]; !ok {
		return apperr.Validation(fmt.Sprintf("content type %q is not an accepted image type", contentType)).
			WithOp("storage.validate")
	}
	if size <= 0 {
		return apperr.Validation("file is empty").WithOp("storage.validate")
	}
	if maxSize > 0 && size > maxSize {
		return apperr.Validation(fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", size, maxSize)).
			WithOp("storage.validate")
	}
	return nil
}

// AllowedImageTypes lists accepted MIME types for the admin upload form.
func AllowedImageTypes() []string {
	out := make([]string, 0, len(allowedImageTypes))
	for ct := range allowedImageTypes {
		out = append(out, ct)
	}
	return out
}
