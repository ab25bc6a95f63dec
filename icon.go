package shell

import (
	"image"

	"golang.org/x/image/draw"
)

// iconSizes are the square variants windowing systems commonly pick
// from for title bars, task bars and alt-tab overlays.
var iconSizes = []int{16, 32, 48}

// IconVariants scales a source image into the standard icon sizes.
// Window backends install the returned set as the native window icon.
// A nil source yields nil.
func IconVariants(src image.Image) []image.Image {
	if src == nil {
		return nil
	}
	variants := make([]image.Image, 0, len(iconSizes))
	for _, size := range iconSizes {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		variants = append(variants, dst)
	}
	return variants
}
