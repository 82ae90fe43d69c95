package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// RenderPreview draws the crop box outline on a copy of the display image, the
// way the rendering surface shows it. The stroke is drawn inward from the box
// edge so the outline never leaves the box. A stroke width of zero draws nothing.
func RenderPreview(img image.Image, box geometry.Box, boxColor string, strokeWidth int) (*image.NRGBA, error) {
	if strokeWidth < 0 {
		return nil, fmt.Errorf("%w: stroke width %d must not be negative", geometry.ErrInvalidArgument, strokeWidth)
	}
	c, err := ParseBoxColor(boxColor)
	if err != nil {
		return nil, err
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}

	dst := imaging.Clone(img)
	x0, y0, x1, y1 := box.Left, box.Top, box.Right(), box.Bottom()
	for s := 0; s < strokeWidth && x0+s < x1-s && y0+s < y1-s; s++ {
		drawHLine(dst, y0+s, x0, x1, c)
		drawHLine(dst, y1-1-s, x0, x1, c)
		drawVLine(dst, x0+s, y0, y1, c)
		drawVLine(dst, x1-1-s, y0, y1, c)
	}
	return dst, nil
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if y < 0 || y >= h {
		return
	}
	x0, x1 = max(x0, 0), min(x1, w)
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if x < 0 || x >= w {
		return
	}
	y0, y1 = max(y0, 0), min(y1, h)
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
