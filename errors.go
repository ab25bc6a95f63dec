package shell

import "errors"

// Errors reported by the platform layer. All of them are fatal at the
// application boundary except ErrSurfaceCreation during a resize, which
// callers handle by keeping the previous surfaces and retrying on the
// next resize trigger. Degenerate (zero) sizes are never errors; the
// affected operations are no-ops instead.
var (
	// ErrNoBackend is returned when no compatible graphics backend is
	// registered or the requested one is unknown.
	ErrNoBackend = errors.New("shell: no compatible graphics backend")

	// ErrDeviceAcquisition is returned when no suitable GPU adapter
	// accepts device creation.
	ErrDeviceAcquisition = errors.New("shell: no suitable GPU device")

	// ErrSurfaceCreation is returned when a backend refuses to bind a
	// render target.
	ErrSurfaceCreation = errors.New("shell: surface creation failed")

	// ErrPresent is returned when the present/swap call fails, for
	// example on device loss.
	ErrPresent = errors.New("shell: present failed")

	// ErrEmbeddingUnsupported is returned by window backends that cannot
	// create parent-embedded child windows on the current platform.
	ErrEmbeddingUnsupported = errors.New("shell: parent-embedded windows not supported on this platform")
)
