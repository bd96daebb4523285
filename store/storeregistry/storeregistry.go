// Package storeregistry is a build-time plugin registry for store.Store
// backends: a backend
// registers itself from init(), and is only linked into a binary that
// imports its package (often blank-imported from a cmd/ main).
package storeregistry

import (
	"flag"
	"fmt"
	"sort"
	"sync"

	"convex.dev/convex/store"
)

// Usage restricts which programs should accept a given backend.
type Usage uint8

const (
	// UsageCLI marks a backend fit for one-shot CLI tools (convex-cas).
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks a backend fit for long-running daemons (convex-casd).
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }

// Backend opens a store.Store implementation using flags it registers
// itself.
type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// RegisterFlags adds backend-specific flags to fs. Must be safe to call
	// exactly once per process.
	RegisterFlags func(fs *flag.FlagSet)

	// Open constructs the Store using values parsed into flags registered by
	// RegisterFlags. It returns an optional close function.
	Open func() (store.Store, func() error, error)
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register registers a backend.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("storeregistry: backend name is required")
	}
	if b.RegisterFlags == nil {
		return fmt.Errorf("storeregistry: backend %q missing RegisterFlags", b.Name)
	}
	if b.Open == nil {
		return fmt.Errorf("storeregistry: backend %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("storeregistry: backend %q missing Usage", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[b.Name]; exists {
		return fmt.Errorf("storeregistry: backend %q already registered", b.Name)
	}
	backends[b.Name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns backends matching usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns backend names matching usage, sorted.
func Names(usage Usage) []string {
	bs := List(usage)
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// RegisterFlags registers flags for all backends matching usage, enabling
// single-pass flag parsing (Go's flag package rejects unknown flags).
func RegisterFlags(fs *flag.FlagSet, usage Usage) {
	for _, b := range List(usage) {
		b.RegisterFlags(fs)
	}
}

// Open opens the named backend if it exists and matches usage.
func Open(name string, usage Usage) (store.Store, func() error, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("storeregistry: unknown backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("storeregistry: backend %q not supported in this binary", name)
	}
	return b.Open()
}

// Lookup returns the named backend, for callers (store/storeconfig) that
// need to drive its RegisterFlags/Open pair with a config map instead of the
// process's own command-line flags.
func Lookup(name string) (Backend, bool) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// OpenWithConfig opens the named backend using an in-memory key/value config
// instead of the process's command-line flags: it registers the backend's
// flags into a scratch FlagSet, sets each config entry onto it, then calls
// Open. This lets a single process open several instances of the same
// backend (e.g. two localstore directories) via store/storeconfig, which
// Open's shared process-wide flags cannot do.
func OpenWithConfig(name string, usage Usage, config map[string]string) (store.Store, func() error, error) {
	b, ok := Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("storeregistry: unknown backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("storeregistry: backend %q not supported in this binary", name)
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	b.RegisterFlags(fs)
	for k, v := range config {
		if err := fs.Set(k, v); err != nil {
			return nil, nil, fmt.Errorf("storeregistry: backend %q: invalid config key %q: %w", name, k, err)
		}
	}
	return b.Open()
}
