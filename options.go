package shell

import "go.uber.org/zap"

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) DriverOption {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithIdle registers a callback invoked at the end of every tick, after
// rendering, with the core's current entity set to the window root.
func WithIdle(fn IdleFunc) DriverOption {
	return func(d *Driver) { d.onIdle = fn }
}

// WithQuitAccelerator treats the key combination, while pressed, as
// close intent. Typically Super+Q on macOS-like platforms.
func WithQuitAccelerator(code Key, mods Modifiers) DriverOption {
	return func(d *Driver) { d.translator.SetQuitAccelerator(code, mods) }
}

// WithFixedScaleFactor pins the OS scale factor instead of following
// what the windowing system reports on resize. Use for HiDPI policies
// controlled by a host application.
func WithFixedScaleFactor(factor float64) DriverOption {
	return func(d *Driver) {
		d.systemScaling = false
		d.osScale = factor
	}
}
