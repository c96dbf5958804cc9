// Package local implements a local filesystem destination.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/architect-io/shipctl/pkg/destination"
)

func init() {
	destination.Register("local", NewDestination)
}

// Destination implements the destination interface for a local directory,
// typically a directory served by a static file server or used in tests.
type Destination struct {
	basePath string
}

// NewDestination creates a new local destination.
func NewDestination(settings map[string]string) (destination.Destination, error) {
	path := settings["path"]
	if path == "" {
		return nil, fmt.Errorf("local destination requires 'path' configuration")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	return &Destination{basePath: path}, nil
}

func (d *Destination) Type() string {
	return "local"
}

func (d *Destination) Upload(ctx context.Context, key string, data io.Reader, opts destination.UploadOptions) error {
	fullPath := d.fullPath(key)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Write to temp file first, then rename for atomicity
	tempFile, err := os.CreateTemp(dir, ".shipctl-upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	_, err = io.Copy(tempFile, data)
	if closeErr := tempFile.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write object: %w", err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save object: %w", err)
	}

	return nil
}

func (d *Destination) Delete(ctx context.Context, key string) error {
	fullPath := d.fullPath(key)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Idempotent
		}
		return fmt.Errorf("failed to delete %s: %w", fullPath, err)
	}

	return nil
}

func (d *Destination) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := d.fullPath(prefix)

	var keys []string
	err := filepath.Walk(fullPrefix, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			relPath, _ := filepath.Rel(d.basePath, path)
			keys = append(keys, filepath.ToSlash(relPath))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", fullPrefix, err)
	}

	return keys, nil
}

func (d *Destination) Exists(ctx context.Context, key string) (bool, error) {
	fullPath := d.fullPath(key)

	_, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", fullPath, err)
	}

	return true, nil
}

func (d *Destination) fullPath(key string) string {
	return filepath.Join(d.basePath, filepath.FromSlash(key))
}
