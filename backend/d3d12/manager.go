// Package d3d12 provides the Direct3D 12 surface backend. The swap
// chain uses two flip-model buffers and a frame-latency waitable object;
// the manager waits on it with a bounded timeout before handing out the
// back buffer, so a stalled compositor degrades to a slow frame instead
// of a hang.
//
// The manager logic is portable and tested against fakes; the COM layer
// that talks to DXGI and D3D12 is Windows-only.
package d3d12

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

const (
	bufferCount         = 2
	frameLatencyTimeout = time.Second

	presentAllowTearing = 0x200 // DXGI_PRESENT_ALLOW_TEARING
)

// presentArgs maps the vsync setting to the Present sync interval and
// flags. Tearing may only be requested when vsync is off and the swap
// chain was created with tearing support.
func presentArgs(vsync, tearingSupported bool) (interval, flags uint32) {
	if vsync {
		return 1, 0
	}
	if tearingSupported {
		return 0, presentAllowTearing
	}
	return 0, 0
}

// swapChain is the flip-model swap chain: two buffers presented in
// alternation, plus the frame-latency waitable object.
type swapChain interface {
	WaitFrameLatency(timeout time.Duration) error
	// ReleaseBuffers drops every reference to the back buffers. Required
	// before ResizeBuffers; DXGI refuses to resize while references are
	// outstanding.
	ReleaseBuffers()
	ResizeBuffers(size shell.Size) error
	Buffer(index int) (uintptr, error)
	CurrentIndex() int
	Present(dirty shell.Region) error
	Release()
}

// deviceContext is the D3D12 device side: the command queue and the
// per-frame command allocator.
type deviceContext interface {
	// FreeResources releases everything the context holds that
	// references a back buffer.
	FreeResources()
	// Reset recycles the command allocator so no recorded command list
	// still points at the old buffers.
	Reset() error
	Release()
}

// bufferView is one back buffer exposed as a surface. Size reports the
// window's physical size, which can be smaller than the allocated buffer.
type bufferView struct {
	resource uintptr
	size     shell.Size
}

func (b bufferView) Size() shell.Size { return b.size }

// Resource returns the ID3D12Resource handle of the back buffer.
func (b bufferView) Resource() uintptr { return b.resource }

// Manager owns one window's D3D12 device and swap chain. Buffers are
// allocated at the monitor size and grown only when the window outgrows
// them, so ordinary interactive resizes never touch the swap chain.
type Manager struct {
	log   *zap.Logger
	win   shell.NativeWindow
	ctx   deviceContext
	chain swapChain

	// size is the window's physical size; bufSize the allocated buffer
	// size. Invariant: size fits bufSize whenever chain is non-nil.
	size    shell.Size
	bufSize shell.Size

	vsync bool

	newDevice   func(win shell.NativeWindow, size shell.Size, vsync bool, log *zap.Logger) (deviceContext, swapChain, error)
	sizeBuffers func(win shell.NativeWindow, size shell.Size) shell.Size
}

// NewManager returns an uncreated Direct3D 12 surface manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:         log,
		vsync:       true,
		newDevice:   newPlatformDevice,
		sizeBuffers: platformBufferSize,
	}
}

// Name returns "d3d12".
func (m *Manager) Name() string { return shell.BackendD3D12 }

// SetVSync selects whether presents wait for vblank. With vsync off the
// swap chain is created with tearing support where the adapter allows
// it. Takes effect at swap chain creation; call before Create.
func (m *Manager) SetVSync(on bool) { m.vsync = on }

// Create acquires the device and builds the swap chain. A zero initial
// size defers swap chain creation until the first real resize.
func (m *Manager) Create(win shell.NativeWindow, size shell.Size) error {
	m.win = win
	m.size = size

	alloc := m.allocSize(size)
	if alloc.IsZero() {
		return nil
	}
	return m.createChain(alloc)
}

func (m *Manager) createChain(alloc shell.Size) error {
	ctx, chain, err := m.newDevice(m.win, alloc, m.vsync, m.log)
	if err != nil {
		return err
	}
	m.ctx = ctx
	m.chain = chain
	m.bufSize = alloc
	m.log.Info("d3d12 swap chain created",
		zap.Uint32("width", alloc.Width), zap.Uint32("height", alloc.Height))
	return nil
}

// allocSize returns the buffer allocation for a window size: the
// platform's preferred allocation (the monitor size on Windows), never
// smaller than the window itself.
func (m *Manager) allocSize(size shell.Size) shell.Size {
	alloc := m.sizeBuffers(m.win, size)
	if alloc.Width < size.Width {
		alloc.Width = size.Width
	}
	if alloc.Height < size.Height {
		alloc.Height = size.Height
	}
	return alloc
}

// Resize records the new window size. The swap chain buffers are resized
// only when the window no longer fits in them; in that case every buffer
// reference is released and the command allocator reset before
// ResizeBuffers runs. Zero and unchanged sizes return false untouched.
func (m *Manager) Resize(size shell.Size) (bool, error) {
	if size.IsZero() || size == m.size {
		return false, nil
	}

	if m.chain == nil {
		if err := m.createChain(m.allocSize(size)); err != nil {
			return false, err
		}
		m.size = size
		return true, nil
	}

	if size.Fits(m.bufSize) {
		m.size = size
		return true, nil
	}

	alloc := m.allocSize(size)
	m.ctx.FreeResources()
	if err := m.ctx.Reset(); err != nil {
		return false, fmt.Errorf("reset command allocator: %w", err)
	}
	m.chain.ReleaseBuffers()
	if err := m.chain.ResizeBuffers(alloc); err != nil {
		return false, fmt.Errorf("%w: resize to %dx%d: %v",
			shell.ErrSurfaceCreation, alloc.Width, alloc.Height, err)
	}
	m.bufSize = alloc
	m.size = size
	m.log.Debug("d3d12 buffers grown",
		zap.Uint32("width", alloc.Width), zap.Uint32("height", alloc.Height))
	return true, nil
}

// Acquire waits on the frame-latency object and returns the buffer pair:
// the current back buffer as primary, the other as dirty scratch. A
// latency timeout is logged and the frame proceeds.
func (m *Manager) Acquire() (shell.SurfacePair, error) {
	if m.chain == nil {
		return shell.SurfacePair{}, fmt.Errorf("%w: no swap chain", shell.ErrSurfaceCreation)
	}
	if err := m.chain.WaitFrameLatency(frameLatencyTimeout); err != nil {
		m.log.Warn("frame latency wait", zap.Error(err))
	}

	idx := m.chain.CurrentIndex()
	primary, err := m.buffer(idx)
	if err != nil {
		return shell.SurfacePair{}, err
	}
	dirty, err := m.buffer((idx + 1) % bufferCount)
	if err != nil {
		return shell.SurfacePair{}, err
	}
	return shell.SurfacePair{Primary: primary, Dirty: dirty}, nil
}

func (m *Manager) buffer(index int) (bufferView, error) {
	resource, err := m.chain.Buffer(index)
	if err != nil {
		return bufferView{}, fmt.Errorf("%w: back buffer %d: %v", shell.ErrSurfaceCreation, index, err)
	}
	return bufferView{resource: resource, size: m.size}, nil
}

// Present presents the dirty region. An empty region is a no-op.
func (m *Manager) Present(dirty shell.Region) error {
	if dirty.Empty() {
		return nil
	}
	if err := m.chain.Present(dirty); err != nil {
		return fmt.Errorf("%w: %v", shell.ErrPresent, err)
	}
	return nil
}

// RunCurrent runs fn directly: D3D12 has no thread-affine context to
// bind, the device is free-threaded.
func (m *Manager) RunCurrent(fn func() error) error {
	if m.win == nil {
		return fmt.Errorf("%w: d3d12 manager not created", shell.ErrNoBackend)
	}
	return fn()
}

// Close releases the swap chain and device.
func (m *Manager) Close() error {
	if m.ctx != nil {
		m.ctx.FreeResources()
	}
	if m.chain != nil {
		m.chain.Release()
		m.chain = nil
	}
	if m.ctx != nil {
		m.ctx.Release()
		m.ctx = nil
	}
	m.win = nil
	return nil
}
