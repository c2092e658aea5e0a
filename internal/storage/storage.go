// Package storage persists uploaded files (resumes and profile photos)
// behind a small blob interface with local-disk and S3 backends.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store reads and writes uploaded blobs by key.
type Store interface {
	// Put stores data under key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns the blob stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the blob stored under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey builds a storage key from a random hex ID plus the original file's
// extension, namespaced by category ("resumes" or "photos").
func NewKey(category, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s/%s%s", category, id, ext)
}
