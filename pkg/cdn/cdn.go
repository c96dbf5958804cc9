// Package cdn defines the edge-cache invalidation interface used after a
// publish to an edge-cached environment, plus a registry of implementations.
package cdn

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Invalidator purges cached copies of the given paths from a CDN
// distribution. The purge is asynchronous on the CDN side; a nil error means
// the request was accepted, not that caches are already clean.
type Invalidator interface {
	// Type returns the invalidator type identifier.
	Type() string

	// Invalidate requests a purge of the given paths. Paths are absolute
	// within the distribution (e.g. "/index.html").
	Invalidate(ctx context.Context, distributionID string, paths []string) error
}

// Factory creates an Invalidator from manifest settings.
type Factory func(settings map[string]string) (Invalidator, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an invalidator type available by name. Called from
// implementation init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates an Invalidator of the given type with the given settings.
func New(name string, settings map[string]string) (Invalidator, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown edge cache type %q (registered: %v)", name, Registered())
	}

	return factory(settings)
}

// Registered returns the registered invalidator type names, sorted.
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
