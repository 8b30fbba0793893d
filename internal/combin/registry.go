// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file contains the registry of interchangeable exact counters.
package combin

import (
	"fmt"
	"math/big"
	"sort"
	"sync"
)

// Counter computes C(n, k) exactly. Implementations must agree on every
// valid input; the registry exists so independent implementations can be
// cross-checked against each other.
type Counter interface {
	// Name returns the registry name of the counter.
	Name() string
	// Count returns C(n, k) or an error wrapping ErrInvalidArgument.
	Count(n, k int) (*big.Int, error)
}

// MultiplicativeCounter is the engine's own counter (see Count).
type MultiplicativeCounter struct{}

// Name returns "multiplicative".
func (MultiplicativeCounter) Name() string { return "multiplicative" }

// Count returns C(n, k) using the multiplicative formula.
func (MultiplicativeCounter) Count(n, k int) (*big.Int, error) { return Count(n, k) }

// StdlibCounter delegates to big.Int.Binomial and serves as an independent
// oracle for the multiplicative counter.
type StdlibCounter struct{}

// Name returns "binomial".
func (StdlibCounter) Name() string { return "binomial" }

// Count returns C(n, k) using math/big's Binomial.
func (StdlibCounter) Count(n, k int) (*big.Int, error) {
	if err := validateSpace(n, k); err != nil {
		return nil, err
	}
	return new(big.Int).Binomial(int64(n), int64(k)), nil
}

// CounterFactory is a registry of named counters. It allows the CLI and the
// HTTP server to select or compare counters without knowing their concrete
// types.
type CounterFactory interface {
	// Get returns the counter registered under name.
	Get(name string) (Counter, error)
	// List returns the sorted names of all registered counters.
	List() []string
	// Register adds or replaces a counter constructor.
	Register(name string, creator func() Counter) error
	// GetAll returns every registered counter keyed by name.
	GetAll() map[string]Counter
}

// DefaultFactory is the default, thread-safe CounterFactory. Counters are
// created lazily on first use and cached.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() Counter
	counters map[string]Counter
}

// NewDefaultFactory returns a factory with the standard counters
// pre-registered:
//   - "multiplicative": MultiplicativeCounter
//   - "binomial": StdlibCounter
//
// Builds using the "gmp" tag additionally register "gmp" in the global
// factory.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() Counter),
		counters: make(map[string]Counter),
	}
	_ = f.Register("multiplicative", func() Counter { return MultiplicativeCounter{} })
	_ = f.Register("binomial", func() Counter { return StdlibCounter{} })
	return f
}

// Register adds a counter constructor under name, replacing any previous
// registration and dropping its cached instance.
//
// Parameters:
//   - name: The unique counter name.
//   - creator: A constructor for the counter.
//
// Returns:
//   - error: An error if name is empty or creator is nil.
func (f *DefaultFactory) Register(name string, creator func() Counter) error {
	if name == "" || creator == nil {
		return fmt.Errorf("%w: counter registration needs a name and a constructor", ErrInvalidArgument)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.counters, name)
	return nil
}

// Get returns the cached counter for name, creating it on first use.
func (f *DefaultFactory) Get(name string) (Counter, error) {
	f.mu.RLock()
	if c, ok := f.counters[name]; ok {
		f.mu.RUnlock()
		return c, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.counters[name]; ok {
		return c, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown counter %q", ErrInvalidArgument, name)
	}
	c := creator()
	f.counters[name] = c
	return c, nil
}

// MustGet is like Get but panics when name is not registered.
func (f *DefaultFactory) MustGet(name string) Counter {
	c, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("combin: required counter not found: %s", name))
	}
	return c
}

// Has reports whether a counter is registered under name.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

// List returns the registered counter names in alphabetical order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a copy of the registry with every counter instantiated.
func (f *DefaultFactory) GetAll() map[string]Counter {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, creator := range f.creators {
		if _, ok := f.counters[name]; !ok {
			f.counters[name] = creator()
		}
	}
	out := make(map[string]Counter, len(f.counters))
	for name, c := range f.counters {
		out[name] = c
	}
	return out
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide counter registry.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCounter registers a counter in the global factory.
func RegisterCounter(name string, creator func() Counter) error {
	return globalFactory.Register(name, creator)
}
