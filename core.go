package shell

// Entity identifies a node in the UI core's tree. The root entity of a
// window is 0.
type Entity uint64

// RootEntity is the root of a window's entity tree.
const RootEntity Entity = 0

// Core is the UI core collaborator: the widget, style, layout and scene
// model that sits behind the platform layer. The run loop driver and the
// event translator are pure callers of this interface; its internals are
// none of this package's business.
//
// All methods are invoked on the render thread only.
type Core interface {
	// InjectEvent delivers one canonical event into the core's queue.
	InjectEvent(ev Event)

	// ProcessEvents runs the core's internal event-processing pass.
	ProcessEvents()

	// LogicalSize and SetLogicalSize access the window's logical size
	// before any scaling is applied.
	LogicalSize() LogicalSize
	SetLogicalSize(size LogicalSize)

	// UserScaleFactor returns the user's scale multiplier, applied on
	// top of any OS DPI scaling.
	UserScaleFactor() float64

	// SetScaleFactor sets the combined logical-to-physical factor.
	SetScaleFactor(factor float64)

	// SetPhysicalSize sets the window size in physical pixels.
	SetPhysicalSize(width, height float32)

	// Modifiers and SetModifiers access the modifier-key state. Only
	// the event translator writes it.
	Modifiers() Modifiers
	SetModifiers(mods Modifiers)

	// SetSurfaces replaces the window's surface pair. Called by the
	// driver after acquiring the frame's surfaces and after recreation.
	SetSurfaces(pair SurfacePair)

	// ProcessStyleUpdates recomputes styles. It may touch GPU-resident
	// state and therefore runs only while the driver holds the GPU
	// context binding.
	ProcessStyleUpdates()

	// ProcessAnimations advances running animations.
	ProcessAnimations()

	// ProcessVisualUpdates runs the visual-update pass.
	ProcessVisualUpdates()

	// RedrawRequested reports whether the passes above marked anything
	// as needing a redraw this tick.
	RedrawRequested() bool

	// Draw renders the scene into the current surface pair.
	Draw()

	// NeedsRefresh marks the whole window as needing a refresh.
	NeedsRefresh()

	// SetCurrent sets the entity considered "current" for subsequent
	// calls, e.g. before running the idle callback.
	SetCurrent(e Entity)
}
