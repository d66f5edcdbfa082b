package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// FileStorage is the blob store contract used by uploads and post cleanup.
type FileStorage interface {
	// Upload stores r under a timestamped key derived from fileName and returns
	// a retrieval URL for it.
	Upload(ctx context.Context, r io.Reader, fileName, contentType string) (*StoredFile, error)
	// Delete removes the object referenced by a URL previously returned from Upload.
	Delete(ctx context.Context, fileURL string) error
}

type StoredFile struct {
	Bucket string
	Key    string
	URL    string
}

const uploadPrefix = "uploads/"

// ObjectKey builds "uploads/<unix nanos>-<name>" with spaces replaced by underscores.
func ObjectKey(fileName string, now time.Time) string {
	name := strings.Join(strings.Fields(fileName), "_")
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s%d-%s", uploadPrefix, now.UnixNano(), name)
}
