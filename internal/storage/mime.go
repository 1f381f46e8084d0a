package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/aguevara193/reviews-api/pkg/errors"
)

// fallbackContentType is used for unknown extensions when strict
// checking is off.
const fallbackContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".avif": "image/avif",
}

// ContentTypeFor maps a filename's extension to a MIME type. In strict
// mode an unknown extension is rejected with an unsupported-media error
// instead of falling back to application/octet-stream.
func ContentTypeFor(filename string, strict bool) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := contentTypes[ext]; ok {
		return ct, nil
	}
	if strict {
		return "", apperrors.UnsupportedMedia(fmt.Sprintf("unsupported picture type %q", ext))
	}
	return fallbackContentType, nil
}
