package shell

// Surface is one renderable target backed by GPU storage. The UI core
// draws into surfaces handed to it by the run loop driver; it never
// creates or destroys them.
type Surface interface {
	// Size returns the surface extent in physical pixels.
	Size() Size
}

// SurfacePair is the drawable surface for the current frame together
// with a same-sized secondary surface used for partial, dirty-region
// compositing. Both always match the latest applied physical size and
// are recreated together; a pair is never rebuilt halfway.
type SurfacePair struct {
	Primary Surface
	Dirty   Surface
}

// SurfaceManager owns a backend's GPU device or context and the surface
// pair of one window. Implementations exist for OpenGL, Direct3D 12 and
// (as a stub) Vulkan; the active one is chosen through the backend
// registry at construction.
//
// A manager and its surfaces belong to a single render thread. The GPU
// context is bound to that thread for its whole lifetime; the scoped
// acquisition forms below (RunCurrent, Acquire/Present) are the only
// ways to touch it, so a binding cannot leak across unrelated steps.
type SurfaceManager interface {
	// Name returns the backend identifier, e.g. "opengl" or "d3d12".
	Name() string

	// Create binds the manager to a window and builds the initial
	// surface pair. Zero sizes are filtered upstream; any other refusal
	// to bind a render target wraps ErrSurfaceCreation and is fatal at
	// startup.
	Create(win NativeWindow, size Size) error

	// Resize reallocates backend buffers for the new physical size. It
	// returns false without touching anything when the size is zero in
	// either dimension or equal to the currently stored size. A non-nil
	// error means the previous pair was kept where possible; callers
	// skip the tick and retry on the next resize trigger.
	Resize(size Size) (bool, error)

	// Acquire returns the surface pair for the current frame: the
	// drawable surface first, the present/compositing counterpart
	// second. It may block on a bounded wait for the next available
	// buffer. On context-owning backends the GPU context is current to
	// the calling thread from Acquire until the matching Present.
	Acquire() (SurfacePair, error)

	// Present submits pending draw commands and displays the dirty
	// region. An empty region is a no-op. Errors wrap ErrPresent and
	// are fatal.
	Present(dirty Region) error

	// RunCurrent runs fn with the GPU context bound to the calling
	// thread, releasing the binding on every exit path, including
	// early errors and panics. Backends without a bind/unbind notion
	// run fn directly.
	RunCurrent(fn func() error) error

	// Close releases all GPU resources. The manager must not be used
	// afterwards.
	Close() error
}
