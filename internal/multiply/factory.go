package multiply

import (
	"fmt"
	"sort"
	"sync"
)

// Factory resolves strategies by name.
type Factory interface {
	// Get returns the strategy registered under name.
	Get(name string) (Multiplier, error)
	// List returns the registered names in sorted order.
	List() []string
	// Register adds or replaces a strategy constructor.
	Register(name string, create func() Multiplier) error
}

// DefaultFactory is a thread-safe Factory that builds each strategy once.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() Multiplier
	cache    map[string]Multiplier
}

// NewDefaultFactory returns a factory with "parallel", "sequential" and
// "gonum" registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() Multiplier),
		cache:    make(map[string]Multiplier),
	}
	f.creators["parallel"] = func() Multiplier { return Parallel{} }
	f.creators["sequential"] = func() Multiplier { return Sequential{} }
	f.creators["gonum"] = func() Multiplier { return Gonum{} }
	return f
}

// Get implements Factory.
func (f *DefaultFactory) Get(name string) (Multiplier, error) {
	f.mu.RLock()
	if m, ok := f.cache[name]; ok {
		f.mu.RUnlock()
		return m, nil
	}
	create, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, f.List())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.cache[name]; ok {
		return m, nil
	}
	m := create()
	f.cache[name] = m
	return m, nil
}

// List implements Factory.
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

// Register implements Factory.
func (f *DefaultFactory) Register(name string, create func() Multiplier) error {
	if name == "" || create == nil {
		return fmt.Errorf("register: name and constructor are required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = create
	delete(f.cache, name)
	return nil
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}
