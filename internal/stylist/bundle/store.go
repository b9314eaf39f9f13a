package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by a Store that holds no bundle yet.
var ErrNotFound = errors.New("BUNDLE_NOT_FOUND")

// Store saves and loads the single current bundle.
type Store interface {
	Save(ctx context.Context, b *Bundle) error
	Load(ctx context.Context) (*Bundle, error)
	Location() string
}

// FileStore keeps the bundle as a JSON file on local disk.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Location() string {
	return s.Path
}

// Save writes to a temporary file and renames it over Path.
func (s *FileStore) Save(_ context.Context, b *Bundle) error {
	data, err := Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("failed to move bundle into place: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (*Bundle, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return Unmarshal(data)
}

// ObjectStorage is the subset of an object store client S3Store needs.
type ObjectStorage interface {
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// GetObject reports a missing key as os.ErrNotExist.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Store keeps the bundle as one object in a bucket.
type S3Store struct {
	client ObjectStorage
	bucket string
	key    string
}

func NewS3Store(client ObjectStorage, bucket, key string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key}
}

func (s *S3Store) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *S3Store) Save(ctx context.Context, b *Bundle) error {
	data, err := Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}
	if err := s.client.PutObject(ctx, s.bucket, s.key, data, "application/json"); err != nil {
		return fmt.Errorf("failed to upload bundle to %s: %w", s.Location(), err)
	}
	return nil
}

func (s *S3Store) Load(ctx context.Context) (*Bundle, error) {
	data, err := s.client.GetObject(ctx, s.bucket, s.key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Location())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download bundle from %s: %w", s.Location(), err)
	}
	return Unmarshal(data)
}
