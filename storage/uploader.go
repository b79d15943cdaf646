package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"path"
	"strings"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
}

// FileUploader stores uploaded images and resolves their public URLs.
// Which backend (local disk, R2 bucket) sits behind it is picked once at
// startup.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// NewUploadKey derives a collision-resistant object key for an uploaded file,
// keeping the original extension.
func NewUploadKey(originalName string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	ext := strings.ToLower(path.Ext(originalName))
	return time.Now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(suffix) + ext
}

// KeyFromURL extracts the object key from a public /uploads/... URL.
// Returns ok=false for URLs this service did not produce.
func KeyFromURL(url string) (string, bool) {
	const prefix = "/uploads/"
	if idx := strings.Index(url, prefix); idx >= 0 {
		key := url[idx+len(prefix):]
		if key != "" && !strings.Contains(key, "/") && !strings.Contains(key, "..") {
			return key, true
		}
	}
	return "", false
}
