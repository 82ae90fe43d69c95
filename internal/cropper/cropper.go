package cropper

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
	"github.com/ironsheep/image-cropper-mcp/internal/imaging"
)

// BoxAlgorithm computes an initial display-space box for the display image.
// Its result is used as is: no aspect-ratio post-processing is applied.
type BoxAlgorithm func(img image.Image, ratio *geometry.AspectRatio) (geometry.Box, error)

// Options are the per-request settings of Crop.
type Options struct {
	// RealtimeUpdate makes the surface report every edit instead of only a
	// confirmed one.
	RealtimeUpdate bool
	// BoxColor is a hex color or CSS color name for the box outline.
	BoxColor string
	// StrokeWidth is the outline width in display pixels.
	StrokeWidth int
	// AspectRatio locks the box to W:H when set.
	AspectRatio *geometry.AspectRatio
	// ReturnType is "image" or "box", in any case.
	ReturnType string
	// BoxAlgorithm replaces the default box heuristic when set.
	BoxAlgorithm BoxAlgorithm
	// ShouldResizeImage scales the image down to the display limits first.
	ShouldResizeImage bool
	// SessionKey, when set, remembers the final box for later requests.
	SessionKey string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		RealtimeUpdate:    true,
		BoxColor:          imaging.DefaultBoxColor,
		StrokeWidth:       imaging.DefaultStrokeWidth,
		ReturnType:        string(imaging.ModeImage),
		ShouldResizeImage: true,
	}
}

// Config holds the display limits of a Cropper.
type Config struct {
	MaxWidth  int
	MaxHeight int
}

// DefaultConfig returns the 700x700 display limit.
func DefaultConfig() Config {
	return Config{MaxWidth: geometry.MaxDisplayWidth, MaxHeight: geometry.MaxDisplayHeight}
}

// Cropper runs crop requests against a rendering surface.
type Cropper struct {
	config   Config
	surface  Surface
	sessions *SessionStore
}

// New creates a Cropper with the default display limits.
func New(surface Surface) *Cropper {
	return NewWithConfig(DefaultConfig(), surface)
}

// NewWithConfig creates a Cropper with custom display limits. Non-positive
// limits fall back to the defaults.
func NewWithConfig(config Config, surface Surface) *Cropper {
	if config.MaxWidth <= 0 {
		config.MaxWidth = geometry.MaxDisplayWidth
	}
	if config.MaxHeight <= 0 {
		config.MaxHeight = geometry.MaxDisplayHeight
	}
	if surface == nil {
		surface = StaticSurface{}
	}
	return &Cropper{
		config:   config,
		surface:  surface,
		sessions: NewSessionStore(),
	}
}

// Sessions returns the store used for Options.SessionKey.
func (c *Cropper) Sessions() *SessionStore {
	return c.sessions
}

// Prepared is a request that has been scaled and given an initial box, ready
// to be shown on a surface.
type Prepared struct {
	Mode     imaging.Mode
	Original image.Image
	Display  image.Image
	Scale    geometry.ScaleFactor
	Initial  geometry.Box
	Params   RenderParams

	sessionKey string
}

// Result is the outcome of a crop. Image is nil when Type is imaging.ModeBox;
// Box is always the crop box in original-image coordinates.
type Result struct {
	Type       imaging.Mode         `json:"type"`
	Image      image.Image          `json:"-"`
	Box        geometry.Box         `json:"box"`
	DisplayBox geometry.Box         `json:"display_box"`
	Scale      geometry.ScaleFactor `json:"scale"`
	// Touched reports whether the surface sent a box.
	Touched bool `json:"touched"`
}

// Crop runs the whole pipeline for img: scale, initial box, surface, map back
// to original coordinates, extract.
func (c *Cropper) Crop(img image.Image, opts Options) (*Result, error) {
	p, err := c.Prepare(img, opts)
	if err != nil {
		return nil, err
	}
	return c.Complete(p, c.surface)
}

// Complete shows a prepared request on surface, waits for its final box and
// finishes the crop. A nil surface means nobody touched the box.
func (c *Cropper) Complete(p *Prepared, surface Surface) (*Result, error) {
	var stream BoxStream
	if surface != nil {
		stream = surface.Render(p.Params)
	}
	box, touched := finalBox(stream, p.Initial)
	res, err := c.Finish(p, box)
	if err != nil {
		return nil, err
	}
	res.Touched = touched
	return res, nil
}

// Prepare validates opts, scales img and computes the initial display box.
// Nothing is stored until Finish succeeds.
func (c *Cropper) Prepare(img image.Image, opts Options) (*Prepared, error) {
	mode, err := imaging.ParseMode(opts.ReturnType)
	if err != nil {
		return nil, err
	}
	if opts.AspectRatio != nil {
		if err := opts.AspectRatio.Validate(); err != nil {
			return nil, err
		}
	}
	boxColor := opts.BoxColor
	if boxColor == "" {
		boxColor = imaging.DefaultBoxColor
	}
	boxColor, err = imaging.NormalizeBoxColor(boxColor)
	if err != nil {
		return nil, err
	}
	if opts.StrokeWidth < 0 {
		return nil, fmt.Errorf("%w: stroke width %d must not be negative", geometry.ErrInvalidArgument, opts.StrokeWidth)
	}

	display, scale := img, geometry.Identity
	if opts.ShouldResizeImage {
		display, scale = imaging.Scale(img, c.config.MaxWidth, c.config.MaxHeight)
	}
	canvas := geometry.SizeOf(display)

	initial, err := c.initialBox(display, canvas, opts)
	if err != nil {
		return nil, err
	}

	return &Prepared{
		Mode:     mode,
		Original: img,
		Display:  display,
		Scale:    scale,
		Initial:  initial,
		Params: RenderParams{
			CanvasWidth:    canvas.Width,
			CanvasHeight:   canvas.Height,
			Box:            initial,
			BoxColor:       boxColor,
			StrokeWidth:    opts.StrokeWidth,
			LockAspect:     opts.AspectRatio != nil,
			AspectRatio:    opts.AspectRatio,
			RealtimeUpdate: opts.RealtimeUpdate,
			ImageData:      imaging.FlattenRGBA(display),
		},
		sessionKey: opts.SessionKey,
	}, nil
}

func (c *Cropper) initialBox(display image.Image, canvas geometry.Size, opts Options) (geometry.Box, error) {
	if box, ok := c.sessions.Get(opts.SessionKey, canvas); ok {
		// The stored box may come from a request with another ratio, or none.
		if opts.AspectRatio != nil {
			box = geometry.Constrain(box, opts.AspectRatio, canvas)
		}
		return box, nil
	}
	if opts.BoxAlgorithm != nil {
		box, err := opts.BoxAlgorithm(display, opts.AspectRatio)
		if err != nil {
			return geometry.Box{}, fmt.Errorf("box algorithm: %w", err)
		}
		return box, nil
	}
	return geometry.Recommend(canvas, opts.AspectRatio)
}

// Finish maps the final display box to original coordinates and extracts
// the result. The display box is remembered under the session key on success.
func (c *Cropper) Finish(p *Prepared, displayBox geometry.Box) (*Result, error) {
	original := geometry.SizeOf(p.Original)
	box := geometry.ToOriginal(displayBox, p.Scale, original)

	ext, err := imaging.Extract(p.Original, box, p.Mode)
	if err != nil {
		return nil, fmt.Errorf("crop %s (display %s): %w", box, displayBox, err)
	}

	c.sessions.Put(p.sessionKey, p.Params.Canvas(), displayBox)

	return &Result{
		Type:       ext.Mode,
		Image:      ext.Image,
		Box:        ext.Box,
		DisplayBox: displayBox,
		Scale:      p.Scale,
	}, nil
}
