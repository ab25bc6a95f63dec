package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCore records the call sequence so tests can assert the tick
// protocol. It shares its call log with the mock surface manager.
type mockCore struct {
	calls *[]string

	injected  []Event
	logical   LogicalSize
	userScale float64

	scaleFactor  float64
	physW, physH float32
	mods         Modifiers
	surfaces     SurfacePair
	redraw       bool
	current      Entity
	currentSet   bool
}

func (c *mockCore) InjectEvent(ev Event) {
	*c.calls = append(*c.calls, "InjectEvent")
	c.injected = append(c.injected, ev)
}

func (c *mockCore) ProcessEvents() {
	*c.calls = append(*c.calls, "ProcessEvents")
}

func (c *mockCore) LogicalSize() LogicalSize        { return c.logical }
func (c *mockCore) SetLogicalSize(size LogicalSize) { c.logical = size }
func (c *mockCore) UserScaleFactor() float64        { return c.userScale }

func (c *mockCore) SetScaleFactor(factor float64) {
	*c.calls = append(*c.calls, "SetScaleFactor")
	c.scaleFactor = factor
}

func (c *mockCore) SetPhysicalSize(w, h float32) {
	*c.calls = append(*c.calls, "SetPhysicalSize")
	c.physW, c.physH = w, h
}

func (c *mockCore) Modifiers() Modifiers        { return c.mods }
func (c *mockCore) SetModifiers(mods Modifiers) { c.mods = mods }

func (c *mockCore) SetSurfaces(pair SurfacePair) {
	*c.calls = append(*c.calls, "SetSurfaces")
	c.surfaces = pair
}

func (c *mockCore) ProcessStyleUpdates() {
	*c.calls = append(*c.calls, "ProcessStyleUpdates")
}

func (c *mockCore) ProcessAnimations() {
	*c.calls = append(*c.calls, "ProcessAnimations")
}

func (c *mockCore) ProcessVisualUpdates() {
	*c.calls = append(*c.calls, "ProcessVisualUpdates")
}

func (c *mockCore) RedrawRequested() bool { return c.redraw }

func (c *mockCore) Draw() {
	*c.calls = append(*c.calls, "Draw")
}

func (c *mockCore) NeedsRefresh() { c.redraw = true }

func (c *mockCore) SetCurrent(e Entity) {
	c.current = e
	c.currentSet = true
}

type mockWindow struct {
	logical        LogicalSize
	scale          float64
	resizeRequests []LogicalSize
}

func (w *mockWindow) Handle() uintptr          { return 1 }
func (w *mockWindow) LogicalSize() LogicalSize { return w.logical }
func (w *mockWindow) ScaleFactor() float64     { return w.scale }
func (w *mockWindow) RequestResize(size LogicalSize) {
	w.resizeRequests = append(w.resizeRequests, size)
}
func (w *mockWindow) SetTitle(string) {}
func (w *mockWindow) Minimized() bool { return false }
func (w *mockWindow) Destroy()        {}

type stubSurface struct{ size Size }

func (s stubSurface) Size() Size { return s.size }

type mockManager struct {
	calls *[]string

	resized   []Size
	resizeErr error
	presented []Region
}

func (m *mockManager) Name() string { return "mock" }

func (m *mockManager) Create(NativeWindow, Size) error { return nil }

func (m *mockManager) Resize(size Size) (bool, error) {
	*m.calls = append(*m.calls, "Resize")
	if m.resizeErr != nil {
		return false, m.resizeErr
	}
	m.resized = append(m.resized, size)
	return true, nil
}

func (m *mockManager) Acquire() (SurfacePair, error) {
	*m.calls = append(*m.calls, "Acquire")
	return SurfacePair{Primary: stubSurface{}, Dirty: stubSurface{}}, nil
}

func (m *mockManager) Present(dirty Region) error {
	*m.calls = append(*m.calls, "Present")
	m.presented = append(m.presented, dirty)
	return nil
}

func (m *mockManager) RunCurrent(fn func() error) error {
	*m.calls = append(*m.calls, "RunCurrent")
	return fn()
}

func (m *mockManager) Close() error { return nil }

func newTestDriver(opts ...DriverOption) (*Driver, *mockCore, *mockManager, *mockWindow, *[]string) {
	calls := &[]string{}
	core := &mockCore{
		calls:     calls,
		logical:   LogicalSize{Width: 800, Height: 600},
		userScale: 1,
	}
	mgr := &mockManager{calls: calls}
	win := &mockWindow{logical: LogicalSize{Width: 800, Height: 600}, scale: 1}
	queue := NewEventQueue()
	d := NewDriver(core, win, mgr, queue, opts...)
	return d, core, mgr, win, calls
}

func TestTickRunsPassesInOrder(t *testing.T) {
	d, core, _, _, calls := newTestDriver()
	core.redraw = true

	require.NoError(t, d.Tick())
	assert.Equal(t, []string{
		"ProcessEvents",
		"RunCurrent",
		"ProcessStyleUpdates",
		"ProcessAnimations",
		"ProcessVisualUpdates",
		"Acquire",
		"SetSurfaces",
		"Draw",
		"Present",
	}, *calls)
}

func TestTickDrainsQueueIntoCore(t *testing.T) {
	d, core, _, _, _ := newTestDriver()
	d.Queue().Post(Refresh{})
	d.Queue().Post(MouseEnter{})

	require.NoError(t, d.Tick())
	assert.Equal(t, []Event{Refresh{}, MouseEnter{}}, core.injected)
}

func TestIdleEnqueueForcesExactlyOneExtraTick(t *testing.T) {
	ticks := 0
	posted := false
	var d *Driver
	d, _, _, _, _ = newTestDriver(WithIdle(func(core Core) {
		ticks++
		if !posted {
			posted = true
			d.Queue().Post(Refresh{})
		}
	}))

	require.NoError(t, d.Tick())
	assert.Equal(t, 2, ticks, "an idle enqueue runs one extra full pass, a silent idle none")

	ticks = 0
	require.NoError(t, d.Tick())
	assert.Equal(t, 1, ticks)
}

func TestIdleRunsWithRootEntityCurrent(t *testing.T) {
	d, core, _, _, _ := newTestDriver(WithIdle(func(Core) {}))
	core.current = Entity(42)

	require.NoError(t, d.Tick())
	assert.True(t, core.currentSet)
	assert.Equal(t, RootEntity, core.current)
}

func TestZeroSizeSuppressesRender(t *testing.T) {
	d, core, _, _, calls := newTestDriver()
	core.redraw = true
	core.logical = LogicalSize{} // minimized

	require.NoError(t, d.Tick())
	assert.NotContains(t, *calls, "Acquire")
	assert.NotContains(t, *calls, "Resize", "zero physical size never reaches the surface manager")
}

func TestScaleChangeResizesWindowCoreAndSurfaces(t *testing.T) {
	d, core, mgr, win, _ := newTestDriver()
	core.logical = LogicalSize{Width: 1024, Height: 768}
	core.userScale = 2

	require.NoError(t, d.Tick())

	// Window sees logical × user scale, the core the combined factor,
	// the surfaces the physical size.
	require.Len(t, win.resizeRequests, 1)
	assert.Equal(t, LogicalSize{Width: 2048, Height: 1536}, win.resizeRequests[0])
	assert.Equal(t, 2.0, core.scaleFactor)
	assert.Equal(t, float32(2048), core.physW)
	require.Len(t, mgr.resized, 1)
	assert.Equal(t, Size{Width: 2048, Height: 1536}, mgr.resized[0])
}

func TestSurfaceResizeFailureKeepsTicking(t *testing.T) {
	d, core, mgr, _, calls := newTestDriver()
	mgr.resizeErr = errors.New("device removed")
	core.logical = LogicalSize{Width: 1024, Height: 768}

	// The previous surfaces stay in use; the tick completes and renders.
	require.NoError(t, d.Tick())
	assert.Contains(t, *calls, "Acquire")

	// The next logical change retries the resize.
	mgr.resizeErr = nil
	core.logical = LogicalSize{Width: 1280, Height: 720}
	require.NoError(t, d.Tick())
	require.Len(t, mgr.resized, 1)
	assert.Equal(t, Size{Width: 1280, Height: 720}, mgr.resized[0])
}

func TestHandleRawResizedStripsUserScale(t *testing.T) {
	d, core, _, _, _ := newTestDriver()
	core.userScale = 2

	// The native size includes the user factor; the core's logical size
	// must not.
	d.HandleRaw(RawResized{Logical: LogicalSize{Width: 1600, Height: 1200}, ScaleFactor: 1})
	assert.Equal(t, LogicalSize{Width: 800, Height: 600}, core.logical)
	assert.True(t, core.redraw)
}

func TestHandleRawFollowsSystemScale(t *testing.T) {
	d, core, _, _, _ := newTestDriver()

	d.HandleRaw(RawResized{Logical: LogicalSize{Width: 800, Height: 600}, ScaleFactor: 2})
	d.HandleRaw(RawCursorMove{X: 10, Y: 10})
	require.NotEmpty(t, core.injected)
	assert.Equal(t, MouseMove{X: 20, Y: 20}, core.injected[len(core.injected)-1])
}

func TestFixedScaleFactorIgnoresSystemReports(t *testing.T) {
	d, core, _, _, _ := newTestDriver(WithFixedScaleFactor(2))

	d.HandleRaw(RawResized{Logical: LogicalSize{Width: 800, Height: 600}, ScaleFactor: 1})
	d.HandleRaw(RawCursorMove{X: 10, Y: 10})
	require.NotEmpty(t, core.injected)
	assert.Equal(t, MouseMove{X: 20, Y: 20}, core.injected[len(core.injected)-1],
		"cursor translation keeps the pinned factor")
}

func TestHandleRawFocusGainRefreshes(t *testing.T) {
	d, core, _, _, _ := newTestDriver()
	core.redraw = false

	d.HandleRaw(RawFocused{Focused: false})
	assert.False(t, core.redraw)

	d.HandleRaw(RawFocused{Focused: true})
	assert.True(t, core.redraw)
}

func TestCloseIntentObservedAtTickBoundary(t *testing.T) {
	d, core, _, _, _ := newTestDriver(WithQuitAccelerator(KeyQ, ModCtrl))
	assert.False(t, d.ShouldClose())

	d.HandleRaw(RawKey{Code: KeyControlLeft, Pressed: true})
	d.HandleRaw(RawKey{Code: KeyQ, Pressed: true})
	assert.True(t, d.ShouldClose())

	var closes int
	for _, ev := range core.injected {
		if _, ok := ev.(WindowClose); ok {
			closes++
		}
	}
	assert.Equal(t, 1, closes)
}

func TestWillCloseProducesSingleWindowClose(t *testing.T) {
	d, core, _, _, _ := newTestDriver()

	d.HandleRaw(RawWillClose{})
	d.HandleRaw(RawWillClose{})
	assert.True(t, d.ShouldClose())

	var closes int
	for _, ev := range core.injected {
		if _, ok := ev.(WindowClose); ok {
			closes++
		}
	}
	assert.Equal(t, 1, closes)
}

func TestPresentCoversAppliedPhysicalSize(t *testing.T) {
	d, core, mgr, _, _ := newTestDriver()
	core.redraw = true

	require.NoError(t, d.Tick())
	require.Len(t, mgr.presented, 1)
	assert.Equal(t, FullRegion(Size{Width: 800, Height: 600}), mgr.presented[0])
}
