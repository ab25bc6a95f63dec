package shell

import "math"

// ScaleState is one consistent reconciliation of the window's logical
// size with the OS-reported scale factor and the user scale multiplier.
//
// Physical always equals round(Logical × OSScale × UserScale) and must
// match the size last applied to the native window and the GPU viewport.
type ScaleState struct {
	OSScale   float64
	UserScale float64
	Logical   LogicalSize
	Physical  Size
}

// TotalScale is the combined factor converting logical coordinates to
// physical pixels.
func (s ScaleState) TotalScale() float64 {
	return s.OSScale * s.UserScale
}

// ScaleCoordinator is the single authority for scale and size
// reconciliation. Every size recomputation in the toolkit goes through
// Reconcile; nothing else repeats the formula.
//
// It is single-writer: only the run loop driver calls Reconcile, once
// per tick, on the render thread.
type ScaleCoordinator struct {
	applied ScaleState
}

// NewScaleCoordinator seeds the coordinator with the state applied at
// window creation, so the first reconciliation of identical inputs does
// not signal a spurious resize.
func NewScaleCoordinator(logical LogicalSize, osScale, userScale float64) *ScaleCoordinator {
	return &ScaleCoordinator{
		applied: computeScaleState(logical, osScale, userScale),
	}
}

// Reconcile computes the target state for the given inputs and reports
// whether a resize is required. A resize is needed exactly when the
// logical size or the user scale factor differs from the values used in
// the last applied state; feeding identical inputs twice never signals
// twice. When a resize is needed the new state becomes the applied one.
//
// A resulting physical width or height of zero is a valid state (a
// minimized window) and is reported as such; callers suppress surface
// operations for it rather than treating it as an error.
func (c *ScaleCoordinator) Reconcile(logical LogicalSize, osScale, userScale float64) (ScaleState, bool) {
	needed := logical != c.applied.Logical || userScale != c.applied.UserScale
	if !needed {
		return c.applied, false
	}
	c.applied = computeScaleState(logical, osScale, userScale)
	return c.applied, true
}

// Applied returns the state most recently applied to the window.
func (c *ScaleCoordinator) Applied() ScaleState {
	return c.applied
}

func computeScaleState(logical LogicalSize, osScale, userScale float64) ScaleState {
	return ScaleState{
		OSScale:   osScale,
		UserScale: userScale,
		Logical:   logical,
		Physical: Size{
			Width:  uint32(math.Round(logical.Width * osScale * userScale)),
			Height: uint32(math.Round(logical.Height * osScale * userScale)),
		},
	}
}
