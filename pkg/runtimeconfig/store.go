package runtimeconfig

import (
	"sync"

	"github.com/architect-io/shipctl/pkg/errors"
)

// ErrNotLoaded is returned by accessors before a successful Load, or after a
// failed one. Returning a default configuration instead would hide
// startup-ordering bugs.
var ErrNotLoaded = errors.New(errors.ErrCodeNotLoaded, "configuration not loaded")

// Store holds the process-wide configuration for a running application
// instance. It is constructed explicitly and handed to whatever needs it;
// there is no package-level instance.
//
// One Load gates application startup. After a successful Load the stored
// Config never changes; a new configuration requires a new application load.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewStore creates an empty configuration store.
func NewStore() *Store {
	return &Store{}
}

// Load runs the loader and caches its result. A failed load leaves the store
// empty so accessors keep failing rather than serving a partial document.
func (s *Store) Load(loader *Loader) error {
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Get returns the loaded configuration, or ErrNotLoaded.
func (s *Store) Get() (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg == nil {
		return nil, ErrNotLoaded
	}
	return s.cfg, nil
}

// Loaded reports whether a configuration has been loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg != nil
}

// APIBaseURL returns the API base URL, or ErrNotLoaded.
func (s *Store) APIBaseURL() (string, error) {
	cfg, err := s.Get()
	if err != nil {
		return "", err
	}
	return cfg.APIBaseURL, nil
}

// AuthBaseURL returns the auth base URL, or ErrNotLoaded.
func (s *Store) AuthBaseURL() (string, error) {
	cfg, err := s.Get()
	if err != nil {
		return "", err
	}
	return cfg.AuthBaseURL, nil
}

// Feature reports whether the named feature flag is enabled, or ErrNotLoaded.
func (s *Store) Feature(name string) (bool, error) {
	cfg, err := s.Get()
	if err != nil {
		return false, err
	}
	return cfg.Feature(name), nil
}
