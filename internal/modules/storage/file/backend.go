package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jbest-eyes/core/internal/pkg/storage"
)

// Backend persists an uploaded file. It returns the public URL, or "" when
// the file is served by this process under /uploads.
type Backend interface {
	Save(ctx context.Context, name, contentType string, payload []byte) (string, error)
}

// LocalBackend writes files into a directory served at /uploads.
type LocalBackend struct {
	dir string
}

func NewLocalBackend(dir string) *LocalBackend {
	return &LocalBackend{dir: dir}
}

func (b *LocalBackend) Save(ctx context.Context, name, contentType string, payload []byte) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(b.dir, name), payload, 0o644); err != nil {
		return "", err
	}
	return "", nil
}

// S3Backend uploads files to an S3-compatible bucket.
type S3Backend struct {
	client *storage.Client
}

func NewS3Backend(client *storage.Client) *S3Backend {
	return &S3Backend{client: client}
}

func (b *S3Backend) Save(ctx context.Context, name, contentType string, payload []byte) (string, error) {
	return b.client.Upload(ctx, name, contentType, payload)
}
