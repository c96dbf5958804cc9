package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Artifact is an immutable tree of static files produced by one build run.
// The same artifact is published to every environment; the only mutation it
// ever sees is the configuration document swapped in before each publish.
type Artifact struct {
	// Root is the directory holding the artifact tree.
	Root string
}

// Files returns every file in the artifact as sorted, slash-separated keys
// relative to the root.
func (a *Artifact) Files() ([]string, error) {
	var keys []string
	err := filepath.Walk(a.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			relPath, err := filepath.Rel(a.Root, path)
			if err != nil {
				return err
			}
			keys = append(keys, filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk artifact tree: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Open opens the file at the given key for reading.
func (a *Artifact) Open(key string) (io.ReadCloser, error) {
	return os.Open(a.path(key))
}

// WriteFile writes a file into the artifact at the given key, creating
// parent directories as needed. Used by configuration substitution; build
// output is otherwise never modified.
func (a *Artifact) WriteFile(key string, data []byte) error {
	target := a.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (a *Artifact) path(key string) string {
	return filepath.Join(a.Root, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}
