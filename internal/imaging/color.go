package imaging

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// DefaultBoxColor is the outline color of the crop box.
const DefaultBoxColor = "#0000FF"

// DefaultStrokeWidth is the outline width of the crop box in display pixels.
const DefaultStrokeWidth = 3

// namedColors are the CSS names the rendering surface accepts besides hex.
var namedColors = map[string]string{
	"black":   "#000000",
	"blue":    "#0000ff",
	"cyan":    "#00ffff",
	"gray":    "#808080",
	"green":   "#008000",
	"lime":    "#00ff00",
	"magenta": "#ff00ff",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"red":     "#ff0000",
	"white":   "#ffffff",
	"yellow":  "#ffff00",
}

// ParseBoxColor parses "#rgb", "#rrggbb" or a CSS color name into an opaque color.
func ParseBoxColor(s string) (color.NRGBA, error) {
	c, err := parseColorful(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// NormalizeBoxColor returns the canonical "#rrggbb" form of s.
func NormalizeBoxColor(s string) (string, error) {
	c, err := parseColorful(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

func parseColorful(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: box color %q: %v", geometry.ErrInvalidArgument, s, err)
	}
	return c, nil
}
