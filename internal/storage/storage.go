// Package storage keeps uploaded product images in an S3 compatible bucket.
package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PresignExpiry is how long a returned image URL stays readable.
const PresignExpiry = 7 * 24 * time.Hour

type ImageStore interface {
	// Upload stores the object under key and returns a URL the web client can load.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageKey builds a collision free object key scoped to the uploader.
func ImageKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return userID + "/" + uuid.NewString() + ext
}

// KeyFromURL recovers the object key from a URL returned by Upload for an image of userID.
// It reports false for URLs that were not produced by ImageKey for that user.
func KeyFromURL(userID, rawURL string) (string, bool) {
	if userID == "" || rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	dir, file := path.Split(u.Path)
	if path.Base(dir) != userID {
		return "", false
	}
	if _, err := uuid.Parse(strings.TrimSuffix(file, path.Ext(file))); err != nil {
		return "", false
	}
	return userID + "/" + file, true
}
