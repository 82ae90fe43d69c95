package geometry

import (
	"fmt"
	"image"
)

// Box is an axis-aligned rectangle defined by its top-left corner and size.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size holds the pixel dimensions of a canvas or image.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeOf returns the dimensions of img.
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Right returns the exclusive right edge.
func (b Box) Right() int { return b.Left + b.Width }

// Bottom returns the exclusive bottom edge.
func (b Box) Bottom() int { return b.Top + b.Height }

// Rect converts the box to a half-open image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right(), b.Bottom())
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Within reports whether the box lies entirely inside a canvas of the given size.
func (b Box) Within(canvas Size) bool {
	return b.Left >= 0 && b.Top >= 0 && b.Right() <= canvas.Width && b.Bottom() <= canvas.Height
}

// Validate returns ErrDegenerateBox when the box has no area.
func (b Box) Validate() error {
	if b.Empty() {
		return fmt.Errorf("%w: %s has non-positive width or height", ErrDegenerateBox, b)
	}
	return nil
}

func (b Box) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", b.Width, b.Height, b.Left, b.Top)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
