package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// Mask returns an opaque black image the size of img with only the pixels
// inside box copied over. It shows where a box-mode result sits in the
// original image.
func Mask(img image.Image, box geometry.Box) (*image.RGBA, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}
	size := geometry.SizeOf(img)
	if !box.Within(size) {
		return nil, fmt.Errorf("%w: mask box %s outside image bounds %s", geometry.ErrInvalidArgument, box, size)
	}

	region := transform.Crop(img, box.Rect().Add(img.Bounds().Min))

	out := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(out, box.Rect(), region, region.Bounds().Min, draw.Src)
	return out, nil
}
