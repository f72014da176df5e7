package artifact

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// Store writes page artifacts to a blob bucket.
type Store struct {
	bucket *blob.Bucket
}

// Open opens a store for the given destination. A gocloud bucket URL
// (s3://..., mem://, file://...) is used as-is; anything else is treated
// as a local directory, created if missing.
func Open(ctx context.Context, dest string) (*Store, error) {
	if !strings.Contains(dest, "://") {
		abs, err := filepath.Abs(dest)
		if err != nil {
			return nil, fmt.Errorf("resolve output dir: %w", err)
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		dest = "file://" + filepath.ToSlash(abs)
	}

	bucket, err := blob.OpenBucket(ctx, dest)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", dest, err)
	}
	return &Store{bucket: bucket}, nil
}

// NewStore wraps an already-open bucket. The caller keeps ownership of the
// bucket's lifetime.
func NewStore(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Create opens the named artifact for writing, starting from empty.
// Closing the writer commits the object, replacing any previous version.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	w, err := s.bucket.NewWriter(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("create artifact %s: %w", name, err)
	}
	return w, nil
}

// ReadAll returns the full contents of the named artifact.
func (s *Store) ReadAll(ctx context.Context, name string) ([]byte, error) {
	return s.bucket.ReadAll(ctx, name)
}

// Exists reports whether the named artifact is present.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	return s.bucket.Exists(ctx, name)
}

// Close releases the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Name builds the artifact name for the URL at the given 1-based position
// in the accepted batch: page<N>.<ext>. The extension comes from the URL
// path and falls back to .html when the path has none.
func Name(index int, rawURL string) string {
	ext := ".html"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); isSafeExt(e) {
			ext = e
		}
	}
	return fmt.Sprintf("page%d%s", index, ext)
}

// isSafeExt accepts short alphanumeric extensions only, keeping artifact
// names free of anything odd a URL might carry.
func isSafeExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
