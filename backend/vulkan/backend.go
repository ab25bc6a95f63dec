// Package vulkan provides the Vulkan surface backend. Device, adapter
// and queue acquisition are fully wired through gogpu; windowed surface
// presentation is not, so Create reports a surface creation failure
// after acquiring the device. Selecting the backend explicitly still
// validates that a Vulkan-capable device exists.
package vulkan

import (
	"fmt"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

// Manager holds the gogpu device handles. Implements shell.SurfaceManager.
type Manager struct {
	log *zap.Logger

	backend  gpu.Backend
	instance types.Instance
	adapter  types.Adapter
	device   types.Device
	queue    types.Queue

	acquired bool
}

// NewManager returns an uncreated Vulkan surface manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Name returns "vulkan".
func (m *Manager) Name() string { return shell.BackendVulkan }

// Create acquires the high-performance adapter, device and queue, then
// fails surface creation: swap chain presentation is not implemented
// for this backend yet.
func (m *Manager) Create(win shell.NativeWindow, size shell.Size) error {
	if err := m.acquireDevice(); err != nil {
		return err
	}
	return fmt.Errorf("%w: vulkan swap chain presentation not implemented", shell.ErrSurfaceCreation)
}

func (m *Manager) acquireDevice() error {
	if m.acquired {
		return nil
	}

	backend := gpu.GetBackend()
	if backend == nil {
		if err := gpu.InitDefaultBackend(); err != nil {
			return fmt.Errorf("%w: %v", shell.ErrDeviceAcquisition, err)
		}
		backend = gpu.GetBackend()
	}
	if backend == nil {
		return fmt.Errorf("%w: no gpu backend available", shell.ErrDeviceAcquisition)
	}
	m.backend = backend

	instance, err := backend.CreateInstance()
	if err != nil {
		return fmt.Errorf("%w: create instance: %v", shell.ErrDeviceAcquisition, err)
	}
	m.instance = instance

	adapter, err := backend.RequestAdapter(instance, &types.AdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: request adapter: %v", shell.ErrDeviceAcquisition, err)
	}
	m.adapter = adapter

	device, err := backend.RequestDevice(adapter, &types.DeviceOptions{
		Label: "shell-vulkan-device",
	})
	if err != nil {
		return fmt.Errorf("%w: request device: %v", shell.ErrDeviceAcquisition, err)
	}
	m.device = device
	m.queue = backend.GetQueue(device)

	m.acquired = true
	m.log.Info("vulkan device acquired", zap.String("gpu backend", backend.Name()))
	return nil
}

// Resize reports no resize: the backend never owns surfaces.
func (m *Manager) Resize(size shell.Size) (bool, error) {
	return false, nil
}

// Acquire fails: no surfaces exist.
func (m *Manager) Acquire() (shell.SurfacePair, error) {
	return shell.SurfacePair{}, fmt.Errorf("%w: vulkan backend has no surfaces", shell.ErrSurfaceCreation)
}

// Present fails for non-empty regions; an empty region is the usual no-op.
func (m *Manager) Present(dirty shell.Region) error {
	if dirty.Empty() {
		return nil
	}
	return fmt.Errorf("%w: vulkan backend has no surfaces", shell.ErrPresent)
}

// RunCurrent runs fn directly; gogpu devices are not thread-affine.
func (m *Manager) RunCurrent(fn func() error) error {
	return fn()
}

// Close drops the device handles.
func (m *Manager) Close() error {
	m.backend = nil
	m.instance = 0
	m.adapter = 0
	m.device = 0
	m.queue = 0
	m.acquired = false
	return nil
}
