// Package destination defines the object-storage interface deployments are
// published to, plus a registry of implementations. Implementations register
// themselves via init() and are selected by the type named in the deployment
// manifest.
package destination

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// ErrNotFound is returned when an object does not exist at the destination.
var ErrNotFound = errors.New("object not found")

// UploadOptions carries per-object metadata. Destinations that have no
// notion of content type or cache control may ignore them.
type UploadOptions struct {
	ContentType  string
	CacheControl string
}

// Destination is an object-storage location a deployment publishes to.
// Keys are forward-slash separated paths relative to the destination root.
type Destination interface {
	// Type returns the destination type identifier.
	Type() string

	// Upload writes an object, replacing any existing object at the key.
	Upload(ctx context.Context, key string, data io.Reader, opts UploadOptions) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys of every object under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether an object exists at the key.
	Exists(ctx context.Context, key string) (bool, error)
}

// Factory creates a Destination from manifest settings.
type Factory func(settings map[string]string) (Destination, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a destination type available by name. Called from
// implementation init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates a Destination of the given type with the given settings.
func New(name string, settings map[string]string) (Destination, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown destination type %q (registered: %v)", name, Registered())
	}

	return factory(settings)
}

// Registered returns the registered destination type names, sorted.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
