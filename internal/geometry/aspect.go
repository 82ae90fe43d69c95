package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// AspectRatio is a width:height constraint. A nil *AspectRatio means free-form.
type AspectRatio struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Common presets. "Free" maps to nil in Presets.
var (
	Square     = AspectRatio{W: 1, H: 1}
	Widescreen = AspectRatio{W: 16, H: 9}
	Landscape  = AspectRatio{W: 4, H: 3}
	Portrait   = AspectRatio{W: 2, H: 3}
)

// Presets returns the named aspect ratios keyed by label.
func Presets() map[string]*AspectRatio {
	sq, ws, ls, pt := Square, Widescreen, Landscape, Portrait
	return map[string]*AspectRatio{
		"1:1":  &sq,
		"16:9": &ws,
		"4:3":  &ls,
		"2:3":  &pt,
		"Free": nil,
	}
}

// PresetNames lists the keys of Presets in display order.
func PresetNames() []string {
	return []string{"1:1", "16:9", "4:3", "2:3", "Free"}
}

// ParseAspectRatio parses "W:H" (also "WxH" or "W/H"). An empty string or
// "free" (any case) yields nil.
func ParseAspectRatio(s string) (*AspectRatio, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "free") {
		return nil, nil
	}
	sep := strings.IndexAny(s, ":x/")
	if sep <= 0 || sep == len(s)-1 {
		return nil, fmt.Errorf("%w: aspect ratio %q must look like W:H", ErrInvalidArgument, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil {
		return nil, fmt.Errorf("%w: aspect ratio width %q: %v", ErrInvalidArgument, s[:sep], err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return nil, fmt.Errorf("%w: aspect ratio height %q: %v", ErrInvalidArgument, s[sep+1:], err)
	}
	r := &AspectRatio{W: w, H: h}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate rejects non-positive terms.
func (r AspectRatio) Validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: aspect ratio %s must have positive terms", ErrInvalidArgument, r)
	}
	return nil
}

// Value returns W/H.
func (r AspectRatio) Value() float64 {
	return float64(r.W) / float64(r.H)
}

func (r AspectRatio) String() string {
	return fmt.Sprintf("%d:%d", r.W, r.H)
}

// FitByShrinking shrinks the rectangle (left, top, right, bottom) to the ratio,
// keeping it centered. A rectangle wider than the ratio loses width; any other
// rectangle (including one already at the exact ratio) loses height, which is a
// zero offset in the exact case.
func FitByShrinking(left, top, right, bottom int, ratio AspectRatio) (int, int, int, int, error) {
	if err := ratio.Validate(); err != nil {
		return 0, 0, 0, 0, err
	}
	width, height := right-left, bottom-top
	if width <= 0 || height <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: cannot fit %s into %dx%d", ErrDegenerateBox, ratio, width, height)
	}

	ideal := ratio.Value()
	current := float64(width) / float64(height)
	if current > ideal {
		newWidth := int(ideal * float64(height))
		offset := (width - newWidth) / 2
		left += offset
		right -= offset
	} else {
		newHeight := int(float64(width) / ideal)
		offset := (height - newHeight) / 2
		top += offset
		bottom -= offset
	}
	return left, top, right, bottom, nil
}

// Tile accumulates whole ratio tiles until the width reaches span and returns
// the tiled width and the matching height. The width is the smallest multiple
// of ratio.W that is >= span, so it can overshoot span by less than one tile.
func Tile(span int, ratio AspectRatio) (width, height int) {
	iters := 0
	for width < span {
		width += ratio.W
		iters++
	}
	return width, iters * ratio.H
}

// Constrain clips b to the canvas and, when ratio is set, shrinks the longer
// side so width:height matches the ratio to within integer rounding. The
// top-left corner is the anchor, so the result never leaves the canvas.
func Constrain(b Box, ratio *AspectRatio, canvas Size) Box {
	b.Left = clampInt(b.Left, 0, canvas.Width)
	b.Top = clampInt(b.Top, 0, canvas.Height)
	b.Width = clampInt(b.Width, 0, canvas.Width-b.Left)
	b.Height = clampInt(b.Height, 0, canvas.Height-b.Top)
	if ratio == nil || ratio.Validate() != nil {
		return b
	}

	if b.Width*ratio.H > b.Height*ratio.W {
		b.Width = b.Height * ratio.W / ratio.H
	} else {
		b.Height = b.Width * ratio.H / ratio.W
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
