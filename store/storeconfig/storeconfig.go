// Package storeconfig opens one or more store.Store backends from a JSON
// config instead of command-line flags, so a daemon can hold several
// differently-configured instances of the same backend (e.g. two
// localstore directories) at once.
//
// Callers still need to link the desired backend packages via blank
// imports; this package only drives storeregistry, it doesn't register
// anything itself.
package storeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"convex.dev/convex/store"
	"convex.dev/convex/store/storeregistry"
)

// Config describes how to open one or more backends via storeregistry.
//
// WritePolicy values:
//   - "first" (default): write only to the first backend; reads fall back
//     in order (store.MultiStore).
//   - "all": write to all backends and require Key equality
//     (store.ReplicatingStore).
type Config struct {
	WritePolicy string          `json:"write_policy,omitempty"`
	Backends    []BackendConfig `json:"backends"`
}

// BackendConfig names one storeregistry backend and its config values.
type BackendConfig struct {
	// Name is the storeregistry backend name to open (e.g. "localstore", "grpc").
	Name string `json:"name"`
	// ID is an optional stable alias used for identification in a
	// ReplicatingStore's per-backend Key map. Defaults to Name.
	ID     string            `json:"id,omitempty"`
	Config map[string]string `json:"config,omitempty"`
}

// LoadFile reads and validates a Config from a JSON file.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("storeconfig: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports a malformed Config without opening anything.
func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("storeconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("storeconfig: backend name is required")
		}
		id := b.Name
		if b.ID != "" {
			id = b.ID
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("storeconfig: duplicate backend id %q", id)
		}
		seen[id] = struct{}{}
	}
	switch c.WritePolicy {
	case "", "first", "all":
		return nil
	default:
		return fmt.Errorf("storeconfig: invalid write_policy %q", c.WritePolicy)
	}
}

// Open opens a store.Store per config. If preferredBackend is non-empty,
// backends are reordered so preferredBackend is first (and thus used for
// writes under WritePolicy "first").
func (c Config) Open(usage storeregistry.Usage, preferredBackend string) (store.Store, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	ordered := append([]BackendConfig(nil), c.Backends...)
	if preferredBackend != "" {
		idx := -1
		for i := range ordered {
			if ordered[i].Name == preferredBackend || ordered[i].ID == preferredBackend {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("storeconfig: preferred backend %q not found in config", preferredBackend)
		}
		if idx != 0 {
			b := ordered[idx]
			copy(ordered[1:idx+1], ordered[0:idx])
			ordered[0] = b
		}
	}

	named := make([]store.NamedStore, 0, len(ordered))
	closers := make([]func() error, 0, len(ordered))
	for _, b := range ordered {
		s, closeFn, err := storeregistry.OpenWithConfig(b.Name, usage, b.Config)
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i]()
			}
			return nil, nil, err
		}
		name := b.Name
		if b.ID != "" {
			name = b.ID
		}
		named = append(named, store.NamedStore{Name: name, Store: s})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if len(named) == 1 {
		return named[0].Store, closeAll, nil
	}

	switch c.WritePolicy {
	case "", "first":
		adapters := make([]store.Store, 0, len(named))
		for _, n := range named {
			adapters = append(adapters, n.Store)
		}
		return store.MultiStore{Adapters: adapters}, closeAll, nil
	case "all":
		return store.ReplicatingStore{Backends: named}, closeAll, nil
	default:
		return nil, nil, fmt.Errorf("storeconfig: invalid write_policy %q", c.WritePolicy)
	}
}
