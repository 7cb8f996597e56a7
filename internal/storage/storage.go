package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const URLPrefix = "/uploads/"

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// ImageStore keeps uploaded images and serves them back by name.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var namePattern = regexp.MustCompile(`^[0-9]+-[0-9a-f-]{36}\.[a-z]+$`)

// ObjectName builds "<unix-millis>-<uuid><ext>" from the uploaded file name.
// Only image extensions are accepted.
func ObjectName(original string, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidName, ext)
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString(), ext), nil
}

// ContentType returns the image type for a stored name.
func ContentType(name string) string {
	if ct, ok := allowedExt[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

func URL(name string) string {
	return URLPrefix + name
}
