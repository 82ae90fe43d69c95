package geometry

import "math"

// ToOriginal maps a display-space box to original-image coordinates.
//
// Left and top are rounded and floored at zero; width and height are rounded
// and clamped so the box never extends past the original image. Rounding alone
// can push the right or bottom edge out by a pixel.
func ToOriginal(display Box, scale ScaleFactor, original Size) Box {
	left := max(0, int(math.Round(float64(display.Left)*scale.X)))
	top := max(0, int(math.Round(float64(display.Top)*scale.Y)))
	width := min(original.Width-left, int(math.Round(float64(display.Width)*scale.X)))
	height := min(original.Height-top, int(math.Round(float64(display.Height)*scale.Y)))
	return Box{Left: left, Top: top, Width: width, Height: height}
}

// ToDisplay maps an original-space box onto the display image. It is used to
// seed the surface from a stored original-space box.
func ToDisplay(orig Box, scale ScaleFactor, display Size) Box {
	if scale.X == 0 || scale.Y == 0 {
		return orig
	}
	left := max(0, int(math.Round(float64(orig.Left)/scale.X)))
	top := max(0, int(math.Round(float64(orig.Top)/scale.Y)))
	width := min(display.Width-left, int(math.Round(float64(orig.Width)/scale.X)))
	height := min(display.Height-top, int(math.Round(float64(orig.Height)/scale.Y)))
	return Box{Left: left, Top: top, Width: width, Height: height}
}
