package geometry

// Default display limits for the rendering surface.
const (
	MaxDisplayWidth  = 700
	MaxDisplayHeight = 700
)

// ScaleFactor is the ratio of original to display dimension along each axis.
type ScaleFactor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the scale factor of an image that was not resized.
var Identity = ScaleFactor{X: 1, Y: 1}

// IsIdentity reports whether no resizing happened.
func (s ScaleFactor) IsIdentity() bool {
	return s == Identity
}

// ScaleBetween returns original/scaled per axis.
func ScaleBetween(original, scaled Size) ScaleFactor {
	if original == scaled {
		return Identity
	}
	return ScaleFactor{
		X: float64(original.Width) / float64(scaled.Width),
		Y: float64(original.Height) / float64(scaled.Height),
	}
}

// ScaledSize returns the display size of an image.
//
// The height limit is applied first. The width limit is then checked against
// the possibly already reduced width, so a tall and wide image can be reduced
// twice. Each step truncates to whole pixels; a side never drops below 1.
func ScaledSize(original Size, maxWidth, maxHeight int) Size {
	s := original
	if s.Height > maxHeight {
		ratio := float64(maxHeight) / float64(s.Height)
		s = Size{Width: scaleSide(s.Width, ratio), Height: scaleSide(s.Height, ratio)}
	}
	if s.Width > maxWidth {
		ratio := float64(maxWidth) / float64(s.Width)
		s = Size{Width: scaleSide(s.Width, ratio), Height: scaleSide(s.Height, ratio)}
	}
	return s
}

func scaleSide(n int, ratio float64) int {
	v := int(float64(n) * ratio)
	if v < 1 {
		return 1
	}
	return v
}
