/*
Package shell is the platform-integration layer of a retained-mode UI
toolkit. It owns the GPU-backed rendering surfaces of a window across
interchangeable graphics backends, reconciles window size with DPI and
user scale factors, drives the per-frame update loop, and translates
native platform input into the toolkit's canonical event stream.

# Overview

The widget, layout and styling model lives behind the Core interface and
is not this package's concern. What this package coordinates:

  - SurfaceManager implementations (OpenGL, Direct3D 12, a stub Vulkan
    variant) own the GPU device or context and the window's surface
    pair. Backends register themselves in init(); importing a backend
    package makes it selectable through NewBackend or DefaultBackend.
  - ScaleCoordinator is the single authority for turning a logical size
    plus the OS and user scale factors into a physical pixel size and
    for deciding when that requires a resize.
  - Translator maps raw platform events to canonical events and owns
    the modifier-key state.
  - Driver runs the per-tick update protocol: drain cross-thread
    events, run the core's event pass, reconcile scale, style pass
    under the scoped GPU binding, animation and visual passes, render,
    idle callback.
  - WindowManager opens and closes native windows, including child
    windows embedded into a host-provided parent, and binds the UI-side
    entity to the native handle.

# Threading

One render thread owns the GPU context, the surface manager and the
driver; every driver method runs there. Other goroutines feed events in
only through an EventQueue. Lock the OS thread before entering the run
loop:

	func init() {
	    runtime.LockOSThread()
	}

# Quick start

	backend, _ := opengl.NewWindowBackend(log)
	windows := shell.NewWindowManager(backend)
	win, _ := windows.Open(shell.RootEntity, shell.NewWindowDescription())

	surfaces, _ := shell.DefaultBackend(log)
	_ = surfaces.Create(win, shell.Size{Width: 800, Height: 600})

	queue := shell.NewEventQueue()
	driver := shell.NewDriver(core, win, surfaces, queue)
	win.(*opengl.Window).SetEventSink(driver.HandleRaw)

	for !driver.ShouldClose() {
	    opengl.PollEvents()
	    if err := driver.Tick(); err != nil {
	        break
	    }
	}
*/
package shell
