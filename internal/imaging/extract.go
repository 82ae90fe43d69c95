package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// Mode selects what Extract returns.
type Mode string

const (
	// ModeImage returns the pixels inside the box.
	ModeImage Mode = "image"
	// ModeBox returns the box itself.
	ModeBox Mode = "box"
)

// SupportedModes lists the accepted modes in documentation order.
var SupportedModes = []Mode{ModeImage, ModeBox}

// ParseMode accepts "image" or "box" in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeImage, ModeBox:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q is not a supported value for return type, try one of %s",
		geometry.ErrInvalidArgument, s, supportedModesString())
}

func supportedModesString() string {
	quoted := make([]string, len(SupportedModes))
	for i, m := range SupportedModes {
		quoted[i] = fmt.Sprintf("%q", string(m))
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// Extraction is the output of Extract. Image is nil in ModeBox.
type Extraction struct {
	Mode  Mode
	Image image.Image
	Box   geometry.Box
}

// Extract returns the region of img covered by box, or box itself, per mode.
//
// The box is relative to img's bounds origin and covers the half-open range
// [Left, Left+Width) x [Top, Top+Height). A box with no area fails with
// geometry.ErrDegenerateBox; one that leaves the image fails with
// geometry.ErrInvalidArgument.
func Extract(img image.Image, box geometry.Box, mode Mode) (*Extraction, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}
	size := geometry.SizeOf(img)
	if !box.Within(size) {
		return nil, fmt.Errorf("%w: crop box %s outside image bounds %s", geometry.ErrInvalidArgument, box, size)
	}

	if mode == ModeBox {
		return &Extraction{Mode: mode, Box: box}, nil
	}

	rect := box.Rect().Add(img.Bounds().Min)
	return &Extraction{
		Mode:  mode,
		Image: imaging.Crop(img, rect),
		Box:   box,
	}, nil
}
