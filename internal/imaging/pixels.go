package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Normalize converts any image to zero-origin 8-bit straight-alpha RGBA.
// The result never shares pixels with img.
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// FlattenRGBA returns the row-major R,G,B,A bytes of img, 4*width*height long.
func FlattenRGBA(img image.Image) []byte {
	return Normalize(img).Pix
}
