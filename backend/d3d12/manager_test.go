package d3d12

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

type fakeWindow struct{}

func (fakeWindow) Handle() uintptr { return 0xBEEF }

func (fakeWindow) LogicalSize() shell.LogicalSize {
	return shell.LogicalSize{Width: 800, Height: 600}
}

func (fakeWindow) ScaleFactor() float64 { return 1 }

func (fakeWindow) RequestResize(shell.LogicalSize) {}

func (fakeWindow) SetTitle(string) {}

func (fakeWindow) Minimized() bool { return false }

func (fakeWindow) Destroy() {}

// fakeChain and fakeContext share one call log so tests can assert the
// order of operations across both.
type fakeChain struct {
	calls     *[]string
	waitErr   error
	resizeErr error
	index     int
	presented []shell.Region
}

func (c *fakeChain) WaitFrameLatency(time.Duration) error {
	*c.calls = append(*c.calls, "WaitFrameLatency")
	return c.waitErr
}

func (c *fakeChain) ReleaseBuffers() {
	*c.calls = append(*c.calls, "ReleaseBuffers")
}

func (c *fakeChain) ResizeBuffers(shell.Size) error {
	*c.calls = append(*c.calls, "ResizeBuffers")
	return c.resizeErr
}

func (c *fakeChain) Buffer(index int) (uintptr, error) {
	return uintptr(0x1000 + index), nil
}

func (c *fakeChain) CurrentIndex() int { return c.index }

func (c *fakeChain) Present(dirty shell.Region) error {
	c.presented = append(c.presented, dirty)
	return nil
}

func (c *fakeChain) Release() {
	*c.calls = append(*c.calls, "ChainRelease")
}

type fakeContext struct {
	calls    *[]string
	resetErr error
}

func (c *fakeContext) FreeResources() {
	*c.calls = append(*c.calls, "FreeResources")
}

func (c *fakeContext) Reset() error {
	*c.calls = append(*c.calls, "Reset")
	return c.resetErr
}

func (c *fakeContext) Release() {
	*c.calls = append(*c.calls, "ContextRelease")
}

// newFakeManager wires a manager to fakes. monitor is what the buffer
// sizer reports, mimicking monitor-sized allocation on Windows.
func newFakeManager(monitor shell.Size) (*Manager, *fakeChain, *fakeContext, *[]string) {
	calls := &[]string{}
	chain := &fakeChain{calls: calls}
	ctx := &fakeContext{calls: calls}

	m := NewManager(zap.NewNop())
	m.newDevice = func(shell.NativeWindow, shell.Size, bool, *zap.Logger) (deviceContext, swapChain, error) {
		*calls = append(*calls, "NewDevice")
		return ctx, chain, nil
	}
	m.sizeBuffers = func(_ shell.NativeWindow, size shell.Size) shell.Size {
		if monitor.IsZero() {
			return size
		}
		return monitor
	}
	return m, chain, ctx, calls
}

func TestCreateZeroSizeDefersSwapChain(t *testing.T) {
	m, _, _, calls := newFakeManager(shell.Size{})

	require.NoError(t, m.Create(fakeWindow{}, shell.Size{}))
	assert.Empty(t, *calls)

	_, err := m.Acquire()
	require.ErrorIs(t, err, shell.ErrSurfaceCreation)

	resized, err := m.Resize(shell.Size{Width: 640, Height: 480})
	require.NoError(t, err)
	assert.True(t, resized)
	assert.Contains(t, *calls, "NewDevice")
}

func TestResizeIgnoresZeroAndUnchangedSizes(t *testing.T) {
	m, _, _, calls := newFakeManager(shell.Size{})
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))
	*calls = nil

	resized, err := m.Resize(shell.Size{})
	require.NoError(t, err)
	assert.False(t, resized)

	resized, err = m.Resize(shell.Size{Width: 800, Height: 600})
	require.NoError(t, err)
	assert.False(t, resized)

	assert.Empty(t, *calls)
}

func TestResizeWithinBuffersSkipsSwapChain(t *testing.T) {
	monitor := shell.Size{Width: 1920, Height: 1080}
	m, _, _, calls := newFakeManager(monitor)
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))
	*calls = nil

	resized, err := m.Resize(shell.Size{Width: 1200, Height: 900})
	require.NoError(t, err)
	assert.True(t, resized)
	assert.Empty(t, *calls, "resize within allocated buffers must not touch the swap chain")
	assert.Equal(t, monitor, m.bufSize)
	assert.Equal(t, shell.Size{Width: 1200, Height: 900}, m.size)
}

func TestResizeGrowthReleasesReferencesFirst(t *testing.T) {
	m, _, _, calls := newFakeManager(shell.Size{})
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))
	*calls = nil

	grown := shell.Size{Width: 2560, Height: 1440}
	resized, err := m.Resize(grown)
	require.NoError(t, err)
	assert.True(t, resized)

	require.Equal(t, []string{"FreeResources", "Reset", "ReleaseBuffers", "ResizeBuffers"}, *calls)
	assert.Equal(t, grown, m.bufSize)
}

func TestResizeBuffersFailureKeepsOldState(t *testing.T) {
	m, chain, _, _ := newFakeManager(shell.Size{})
	initial := shell.Size{Width: 800, Height: 600}
	require.NoError(t, m.Create(fakeWindow{}, initial))

	chain.resizeErr = errors.New("device removed")
	resized, err := m.Resize(shell.Size{Width: 2560, Height: 1440})
	require.ErrorIs(t, err, shell.ErrSurfaceCreation)
	assert.False(t, resized)
	assert.Equal(t, initial, m.size)
	assert.Equal(t, initial, m.bufSize)
}

func TestAcquireAlternatesBufferPair(t *testing.T) {
	m, chain, _, _ := newFakeManager(shell.Size{Width: 1920, Height: 1080})
	windowSize := shell.Size{Width: 800, Height: 600}
	require.NoError(t, m.Create(fakeWindow{}, windowSize))

	chain.index = 0
	pair, err := m.Acquire()
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x1000), pair.Primary.(bufferView).Resource())
	assert.Equal(t, uintptr(0x1001), pair.Dirty.(bufferView).Resource())

	chain.index = 1
	pair, err = m.Acquire()
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x1001), pair.Primary.(bufferView).Resource())
	assert.Equal(t, uintptr(0x1000), pair.Dirty.(bufferView).Resource())

	// Surfaces report the window size, not the over-allocated buffer size.
	assert.Equal(t, windowSize, pair.Primary.Size())
	assert.Equal(t, windowSize, pair.Dirty.Size())
}

func TestAcquireProceedsOnLatencyTimeout(t *testing.T) {
	m, chain, _, _ := newFakeManager(shell.Size{})
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))

	chain.waitErr = errors.New("frame latency object not signaled within 1s")
	_, err := m.Acquire()
	require.NoError(t, err, "a latency timeout degrades to a slow frame, not a failure")
}

func TestPresentEmptyRegionIsNoop(t *testing.T) {
	m, chain, _, _ := newFakeManager(shell.Size{})
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))

	require.NoError(t, m.Present(shell.Region{}))
	assert.Empty(t, chain.presented)

	dirty := shell.FullRegion(shell.Size{Width: 800, Height: 600})
	require.NoError(t, m.Present(dirty))
	assert.Equal(t, []shell.Region{dirty}, chain.presented)
}

func TestVSyncSettingReachesSwapChainCreation(t *testing.T) {
	m, _, _, _ := newFakeManager(shell.Size{})
	inner := m.newDevice

	var got []bool
	m.newDevice = func(win shell.NativeWindow, size shell.Size, vsync bool, log *zap.Logger) (deviceContext, swapChain, error) {
		got = append(got, vsync)
		return inner(win, size, vsync, log)
	}

	m.SetVSync(false)
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))
	assert.Equal(t, []bool{false}, got)
}

func TestVSyncDefaultsOn(t *testing.T) {
	m, _, _, _ := newFakeManager(shell.Size{})
	inner := m.newDevice

	var got []bool
	m.newDevice = func(win shell.NativeWindow, size shell.Size, vsync bool, log *zap.Logger) (deviceContext, swapChain, error) {
		got = append(got, vsync)
		return inner(win, size, vsync, log)
	}

	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))
	assert.Equal(t, []bool{true}, got)
}

func TestPresentArgs(t *testing.T) {
	tests := []struct {
		name            string
		vsync, tearing  bool
		interval, flags uint32
	}{
		{"vsync on", true, false, 1, 0},
		{"vsync on ignores tearing", true, true, 1, 0},
		{"vsync off with tearing", false, true, 0, presentAllowTearing},
		{"vsync off without tearing", false, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval, flags := presentArgs(tt.vsync, tt.tearing)
			assert.Equal(t, tt.interval, interval)
			assert.Equal(t, tt.flags, flags)
		})
	}
}

func TestCloseReleasesChainAndContext(t *testing.T) {
	m, _, _, calls := newFakeManager(shell.Size{})
	require.NoError(t, m.Create(fakeWindow{}, shell.Size{Width: 800, Height: 600}))
	*calls = nil

	require.NoError(t, m.Close())
	assert.Equal(t, []string{"FreeResources", "ChainRelease", "ContextRelease"}, *calls)
}
