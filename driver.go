package shell

import (
	"fmt"

	"go.uber.org/zap"
)

// IdleFunc runs at the end of a tick, after rendering, with the core's
// current entity set to the window root. An idle callback that
// unconditionally posts to the event queue forces an extra full tick
// every time and therefore never yields; not doing that is the caller's
// responsibility.
type IdleFunc func(core Core)

// Driver orchestrates the per-frame update protocol for one window. All
// of its methods run on the single render thread that owns the GPU
// context; event producers on other threads reach it only through the
// injected EventQueue.
type Driver struct {
	core       Core
	window     NativeWindow
	surfaces   SurfaceManager
	queue      *EventQueue
	translator *Translator
	scale      *ScaleCoordinator
	log        *zap.Logger

	onIdle IdleFunc

	// osScale tracks the scale factor reported by the windowing system.
	// With system scaling disabled it stays at the fixed value.
	osScale       float64
	systemScaling bool

	redraw      bool
	shouldClose bool
}

// NewDriver wires a run loop driver to its collaborators. The surface
// manager must already have been created against the window; the queue
// is the only channel through which other threads feed events in.
func NewDriver(core Core, window NativeWindow, surfaces SurfaceManager, queue *EventQueue, opts ...DriverOption) *Driver {
	d := &Driver{
		core:          core,
		window:        window,
		surfaces:      surfaces,
		queue:         queue,
		translator:    NewTranslator(),
		log:           zap.NewNop(),
		osScale:       window.ScaleFactor(),
		systemScaling: true,
		redraw:        true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.translator.SetOSScaleFactor(d.osScale)
	d.scale = NewScaleCoordinator(core.LogicalSize(), d.osScale, core.UserScaleFactor())
	return d
}

// Queue returns the injected event queue, for handing to producers.
func (d *Driver) Queue() *EventQueue {
	return d.queue
}

// ShouldClose reports whether close intent has been detected. Checked
// once per tick boundary; an in-flight present is never preempted.
func (d *Driver) ShouldClose() bool {
	return d.shouldClose
}

// HandleRaw feeds one raw platform event through the translator and
// into the UI core. Resize and focus notifications are consumed here:
// they update the inputs that the next tick's scale reconciliation
// reads, rather than resizing anything on the spot.
func (d *Driver) HandleRaw(raw RawEvent) {
	switch e := raw.(type) {
	case RawResized:
		if d.systemScaling {
			d.osScale = e.ScaleFactor
			d.translator.SetOSScaleFactor(d.osScale)
		}
		// The native logical size includes the user scale factor; the
		// core's logical size does not.
		user := d.core.UserScaleFactor()
		d.core.SetLogicalSize(LogicalSize{
			Width:  e.Logical.Width / user,
			Height: e.Logical.Height / user,
		})
		d.core.NeedsRefresh()

	case RawFocused:
		if e.Focused {
			d.core.NeedsRefresh()
		}

	default:
		for _, ev := range d.translator.Translate(raw) {
			d.core.InjectEvent(ev)
		}
		d.core.SetModifiers(d.translator.Modifiers())
	}

	if d.translator.ShouldTerminate() {
		d.shouldClose = true
	}
}

// Tick runs complete update passes until the queue stays empty: if the
// queue drain or the idle callback enqueued new events, another full
// tick runs before control returns to the native event loop, so queued
// state changes are reflected before the next native-driven render.
func (d *Driver) Tick() error {
	for {
		if err := d.tickOnce(); err != nil {
			return err
		}
		if d.queue.Len() == 0 {
			return nil
		}
	}
}

// tickOnce is one full update pass. Steps run in order and none is
// skipped; operations on zero-sized windows are suppressed, not
// attempted and discarded.
func (d *Driver) tickOnce() error {
	// 1. Drain cross-thread events into the core.
	for _, ev := range d.queue.Drain() {
		d.core.InjectEvent(ev)
	}

	// 2. Let the core flush its own event queue.
	d.core.ProcessEvents()

	// 3. Reconcile scale and size; on change, resize window, core and
	// surfaces together so they can never drift apart.
	state, changed := d.scale.Reconcile(d.core.LogicalSize(), d.osScale, d.core.UserScaleFactor())
	if changed {
		d.applyScaleState(state)
	}

	// 4. Style recomputation may touch GPU state, so it runs inside the
	// scoped context binding and nothing else does.
	if err := d.surfaces.RunCurrent(func() error {
		d.core.ProcessStyleUpdates()
		return nil
	}); err != nil {
		return fmt.Errorf("style pass: %w", err)
	}

	// 5. Animation and visual passes.
	d.core.ProcessAnimations()
	d.core.ProcessVisualUpdates()
	if d.core.RedrawRequested() {
		d.redraw = true
	}

	// 6. Render when something is pending and the window has area.
	if d.redraw && !d.scale.Applied().Physical.IsZero() {
		if err := d.render(); err != nil {
			return err
		}
	}

	// 7. Idle callback with the window root as the current entity.
	if d.onIdle != nil {
		d.core.SetCurrent(RootEntity)
		d.onIdle(d.core)
	}

	return nil
}

func (d *Driver) applyScaleState(state ScaleState) {
	// The user scale factor is not part of HiDPI scaling; the windowing
	// system sees it as part of the logical size.
	d.window.RequestResize(state.Logical.Scale(state.UserScale))
	d.core.SetScaleFactor(state.TotalScale())
	d.core.SetPhysicalSize(float32(state.Physical.Width), float32(state.Physical.Height))

	if !state.Physical.IsZero() {
		if _, err := d.surfaces.Resize(state.Physical); err != nil {
			// Keep the previous surfaces; the next resize trigger
			// retries.
			d.log.Warn("surface resize failed, keeping previous surfaces",
				zap.Uint32("width", state.Physical.Width),
				zap.Uint32("height", state.Physical.Height),
				zap.Error(err))
		}
	}

	d.core.NeedsRefresh()
	d.redraw = true
}

func (d *Driver) render() error {
	pair, err := d.surfaces.Acquire()
	if err != nil {
		return fmt.Errorf("acquire surfaces: %w", err)
	}
	d.core.SetSurfaces(pair)
	d.core.Draw()
	if err := d.surfaces.Present(FullRegion(d.scale.Applied().Physical)); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	d.redraw = false
	return nil
}
