// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore reads and writes objects on the local filesystem.
type FileStore struct{}

// NewFileStore creates a FileStore.
func NewFileStore() *FileStore { return &FileStore{} }

func (s *FileStore) Open(ctx context.Context, loc Locator) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(loc.Key)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", loc.Key, err)
	}
	return f, nil
}

// Write copies r to a temporary file next to the target and renames it into
// place, so readers never see a partial file.
func (s *FileStore) Write(ctx context.Context, loc Locator, r io.ReadSeeker) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(loc.Key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(loc.Key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", loc.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, loc.Key); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into %s: %w", loc.Key, err)
	}
	return nil
}
