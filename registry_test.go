package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type namedManager struct {
	mockManager
	name string
}

func (m *namedManager) Name() string { return m.name }

func fakeFactory(name string) BackendFactory {
	return func(*zap.Logger) SurfaceManager {
		calls := []string{}
		return &namedManager{mockManager: mockManager{calls: &calls}, name: name}
	}
}

func TestNewBackendUnknownName(t *testing.T) {
	_, err := NewBackend("metal", zap.NewNop())
	require.ErrorIs(t, err, ErrNoBackend)
}

func TestNewBackendConstructsRegistered(t *testing.T) {
	RegisterBackend(BackendOpenGL, fakeFactory(BackendOpenGL))
	defer UnregisterBackend(BackendOpenGL)

	mgr, err := NewBackend(BackendOpenGL, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BackendOpenGL, mgr.Name())
	assert.Contains(t, AvailableBackends(), BackendOpenGL)
}

func TestDefaultBackendFollowsPriority(t *testing.T) {
	RegisterBackend(BackendVulkan, fakeFactory(BackendVulkan))
	RegisterBackend(BackendOpenGL, fakeFactory(BackendOpenGL))
	defer UnregisterBackend(BackendVulkan)
	defer UnregisterBackend(BackendOpenGL)

	mgr, err := DefaultBackend(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BackendOpenGL, mgr.Name(), "opengl outranks vulkan")

	RegisterBackend(BackendD3D12, fakeFactory(BackendD3D12))
	defer UnregisterBackend(BackendD3D12)

	mgr, err = DefaultBackend(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BackendD3D12, mgr.Name(), "d3d12 outranks everything")
}

func TestDefaultBackendFallsBackToAnyRegistered(t *testing.T) {
	RegisterBackend("custom", fakeFactory("custom"))
	defer UnregisterBackend("custom")

	mgr, err := DefaultBackend(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "custom", mgr.Name())
}

func TestDefaultBackendEmptyRegistry(t *testing.T) {
	_, err := DefaultBackend(zap.NewNop())
	require.ErrorIs(t, err, ErrNoBackend)
}
