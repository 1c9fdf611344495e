// Package remoteconfig holds the runtime-mutable feature flags served to
// clients. Flags live in the remote_config table and are mirrored in a
// mutex-guarded in-memory map so reads never hit the database.
package remoteconfig

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sweeezy/backend/internal/repository"
)

// Config is the payload served to clients.
type Config struct {
	AppVersion string            `json:"app_version"`
	Flags      map[string]string `json:"flags"`
}

// Store is a guarded flag store hydrated from persistence.
type Store struct {
	mu         sync.RWMutex
	flags      map[string]string
	appVersion string
	repo       repository.RemoteConfigRepository
}

// NewStore creates a Store. Call Load before serving reads.
func NewStore(repo repository.RemoteConfigRepository, appVersion string) *Store {
	return &Store{
		flags:      map[string]string{},
		appVersion: appVersion,
		repo:       repo,
	}
}

// Load hydrates the in-memory map from the remote_config table.
func (s *Store) Load(ctx context.Context) error {
	flags, err := s.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("load remote config: %w", err)
	}
	if flags == nil {
		flags = map[string]string{}
	}

	s.mu.Lock()
	s.flags = flags
	s.mu.Unlock()
	return nil
}

// Config returns a snapshot of the current flags.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flags := make(map[string]string, len(s.flags))
	for k, v := range s.flags {
		flags[k] = v
	}
	return Config{AppVersion: s.appVersion, Flags: flags}
}

// Get returns one flag value and whether it is set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flags[key]
	return v, ok
}

// Set persists a flag and updates the in-memory map. The write goes to the
// database first so a failed persist never leaves the map ahead of the table.
func (s *Store) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("set remote config: empty key")
	}
	if err := s.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set remote config %q: %w", key, err)
	}

	s.mu.Lock()
	s.flags[key] = value
	s.mu.Unlock()
	return nil
}
