package shell

import "math"

// Size is an extent in physical pixels.
type Size struct {
	Width, Height uint32
}

// IsZero reports whether either dimension is zero. A zero-sized window
// (for example a minimized one) is a valid state; surface operations
// short-circuit on it instead of failing.
func (s Size) IsZero() bool {
	return s.Width == 0 || s.Height == 0
}

// Fits reports whether s fits inside other in both dimensions.
func (s Size) Fits(other Size) bool {
	return s.Width <= other.Width && s.Height <= other.Height
}

// LogicalSize is a DPI-independent extent in logical coordinates.
type LogicalSize struct {
	Width, Height float64
}

// Scale returns the logical size multiplied by a scale factor.
func (s LogicalSize) Scale(factor float64) LogicalSize {
	return LogicalSize{Width: s.Width * factor, Height: s.Height * factor}
}

// Physical converts the logical size to physical pixels under the given
// combined scale factor, rounding each dimension to the nearest pixel.
func (s LogicalSize) Physical(factor float64) Size {
	return Size{
		Width:  uint32(math.Round(s.Width * factor)),
		Height: uint32(math.Round(s.Height * factor)),
	}
}

// Region is a dirty rectangle in physical pixels. It names the
// sub-rectangle of a surface that changed and must be re-presented.
type Region struct {
	X, Y, W, H float32
}

// Empty reports whether the region is degenerate (non-positive in either
// dimension). Presenting an empty region is a no-op.
func (r Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// FullRegion returns a region covering an entire surface of the given size.
func FullRegion(size Size) Region {
	return Region{W: float32(size.Width), H: float32(size.Height)}
}
