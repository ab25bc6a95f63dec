package shell

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Backend names used by the registry.
const (
	BackendOpenGL = "opengl"
	BackendD3D12  = "d3d12"
	BackendVulkan = "vulkan"
)

// BackendFactory creates a new surface manager instance. The logger may
// be nil; implementations substitute a no-op logger.
type BackendFactory func(log *zap.Logger) SurfaceManager

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)

	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendD3D12, BackendOpenGL, BackendVulkan}
)

// RegisterBackend registers a surface manager factory under a name.
// Backend packages call this from init(); importing a backend package
// is what makes it selectable. Registering twice replaces the factory.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// UnregisterBackend removes a backend. Useful for tests.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// AvailableBackends returns the registered backend names.
func AvailableBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// NewBackend constructs the named backend. It returns ErrNoBackend when
// the name is not registered.
func NewBackend(name string, log *zap.Logger) (SurfaceManager, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q not registered", ErrNoBackend, name)
	}
	return factory(log), nil
}

// DefaultBackend constructs the best available backend by priority. It
// returns ErrNoBackend when nothing is registered; that is a
// configuration error and rejected before any window is created.
func DefaultBackend(log *zap.Logger) (SurfaceManager, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			return factory(log), nil
		}
	}
	for _, factory := range backends {
		return factory(log), nil
	}
	return nil, ErrNoBackend
}
