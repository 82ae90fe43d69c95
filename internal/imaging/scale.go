package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// Scale reduces img to fit within maxWidth x maxHeight and returns the display
// image with the original/display scale factor.
//
// The target size comes from geometry.ScaledSize (height limit first, then
// width against the reduced width). Pixels are resampled once, straight to
// that size. An image that already fits is returned as is with
// geometry.Identity.
func Scale(img image.Image, maxWidth, maxHeight int) (image.Image, geometry.ScaleFactor) {
	original := geometry.SizeOf(img)
	target := geometry.ScaledSize(original, maxWidth, maxHeight)
	if target == original {
		return img, geometry.Identity
	}

	scaled := imaging.Resize(img, target.Width, target.Height, imaging.Lanczos)
	return scaled, geometry.ScaleBetween(original, geometry.SizeOf(scaled))
}
