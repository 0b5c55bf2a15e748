package pool

import (
	"reflect"
	"sync"

	"github.com/lixenwraith/gridnav/logger"
)

// erasedPool is the type-erased surface the registry keeps per pool
type erasedPool interface {
	Clear(shrink bool)
	Dispose()
}

// Registry maps a type identity to one pool per process
// Access is serialized internally; Get for the same type always returns
// the same pool until it is disposed
type Registry struct {
	mu    sync.RWMutex
	pools map[reflect.Type]erasedPool
}

// NewRegistry creates an empty registry
// Applications normally construct one in their entry point and pass it
// by reference; Default offers a shared fallback
func NewRegistry() *Registry {
	return &Registry{
		pools: make(map[reflect.Type]erasedPool),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the lazily-built process registry
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Get returns the registered pool for T, creating one with the given
// capacity when absent. An existing pool is returned as-is
func Get[T any](r *Registry, capacity int) *Pool[T] {
	return obtain(r, func() *Pool[T] {
		return NewPool[T](capacity)
	})
}

// GetWithFactory returns the registered pool for T, creating one with
// the factory when absent
func GetWithFactory[T any](r *Registry, capacity int, factory FactoryFunc[T]) *Pool[T] {
	return obtain(r, func() *Pool[T] {
		return NewPoolWithFactory[T](capacity, factory)
	})
}

// GetWithCreator returns the registered pool for T, creating one with
// the creator (optionally prewarmed) when absent
func GetWithCreator[T any](r *Registry, capacity int, creator Creator[T], prewarm bool) *Pool[T] {
	return obtain(r, func() *Pool[T] {
		return NewPoolWithCreator[T](capacity, creator, prewarm)
	})
}

// Has reports whether a pool is registered for T
func Has[T any](r *Registry) bool {
	key := typeKey[T]()
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pools[key]
	return ok
}

// NumPools returns the number of registered pools
func (r *Registry) NumPools() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}

// ClearAll clears every registered pool
func (r *Registry) ClearAll(shrink bool) {
	r.mu.RLock()
	pools := make([]erasedPool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.mu.RUnlock()
	for _, p := range pools {
		p.Clear(shrink)
	}
}

// DisposeAll disposes and unregisters every pool
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	pools := make([]erasedPool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.pools = make(map[reflect.Type]erasedPool)
	r.mu.Unlock()
	for _, p := range pools {
		p.Dispose()
	}
}

func obtain[T any](r *Registry, build func() *Pool[T]) *Pool[T] {
	key := typeKey[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.pools[key]; ok {
		return existing.(*Pool[T])
	}
	p := build()
	p.tag = key.String()
	p.onRemove = func(tag string) {
		r.remove(key)
		logger.Log.WithField("type", tag).Debug("pool removed")
	}
	r.pools[key] = p
	return p
}

func (r *Registry) remove(key reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pools, key)
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
