package geometry

import "fmt"

// Heuristic bounds of the default box, as fractions of each dimension.
const (
	defaultBoxStart = 0.2
	defaultBoxEnd   = 0.8
)

// Recommend returns the default crop box for a canvas of the given size.
//
// The box spans 20%-80% of each dimension. With a ratio, the box is shrunk to
// the ratio around its center and then re-tiled so its width is an exact
// multiple of ratio.W and its height the same multiple of ratio.H. If the
// tiled box would cross the canvas edge, whole tiles are removed until it fits.
func Recommend(canvas Size, ratio *AspectRatio) (Box, error) {
	left := int(float64(canvas.Width) * defaultBoxStart)
	top := int(float64(canvas.Height) * defaultBoxStart)
	right := int(float64(canvas.Width) * defaultBoxEnd)
	bottom := int(float64(canvas.Height) * defaultBoxEnd)

	if ratio == nil {
		box := Box{Left: left, Top: top, Width: right - left, Height: bottom - top}
		if err := box.Validate(); err != nil {
			return Box{}, fmt.Errorf("default box for %s canvas: %w", canvas, err)
		}
		return box, nil
	}

	left, top, right, _, err := FitByShrinking(left, top, right, bottom, *ratio)
	if err != nil {
		return Box{}, fmt.Errorf("default box for %s canvas: %w", canvas, err)
	}

	width, height := Tile(right-left, *ratio)
	box := Box{Left: left, Top: top, Width: width, Height: height}
	for !box.Empty() && !box.Within(canvas) {
		box.Width -= ratio.W
		box.Height -= ratio.H
	}
	if err := box.Validate(); err != nil {
		return Box{}, fmt.Errorf("default box for %s canvas with ratio %s: %w", canvas, ratio, err)
	}
	return box, nil
}
