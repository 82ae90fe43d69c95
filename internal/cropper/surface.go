package cropper

import (
	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// RenderParams is the payload a Surface needs to show the box over the image.
// All coordinates are in display space.
type RenderParams struct {
	CanvasWidth    int                   `json:"canvasWidth"`
	CanvasHeight   int                   `json:"canvasHeight"`
	Box            geometry.Box          `json:"box"`
	BoxColor       string                `json:"boxColor"` // #rrggbb
	StrokeWidth    int                   `json:"strokeWidth"`
	LockAspect     bool                  `json:"lockAspect"`
	AspectRatio    *geometry.AspectRatio `json:"aspectRatio,omitempty"`
	RealtimeUpdate bool                  `json:"realtimeUpdate"`

	// ImageData is the display image as row-major R,G,B,A bytes.
	ImageData []byte `json:"imageData,omitempty"`
}

// Canvas returns the display size.
func (p RenderParams) Canvas() geometry.Size {
	return geometry.Size{Width: p.CanvasWidth, Height: p.CanvasHeight}
}

// BoxStream carries the boxes a Surface reports, in display space. The
// Surface closes it when the user confirms or the surface goes away. A stream
// closed without values means the user never touched the box.
type BoxStream <-chan geometry.Box

// Surface shows a box over an image and reports the user's edits.
//
// With RealtimeUpdate a surface may send a box after every edit; otherwise it
// sends at most one, on an explicit confirm. When LockAspect is set every box
// it sends must keep width:height at AspectRatio to within integer rounding
// (geometry.Constrain implements that rule).
type Surface interface {
	Render(params RenderParams) BoxStream
}

// StaticSurface is a headless Surface that reports the given boxes, if any,
// and closes immediately.
type StaticSurface struct {
	Boxes []geometry.Box
}

// Render implements Surface.
func (s StaticSurface) Render(params RenderParams) BoxStream {
	boxes := s.Boxes
	if !params.RealtimeUpdate && len(boxes) > 1 {
		boxes = boxes[len(boxes)-1:]
	}
	ch := make(chan geometry.Box, len(boxes))
	for _, b := range boxes {
		if params.LockAspect {
			b = geometry.Constrain(b, params.AspectRatio, params.Canvas())
		}
		ch <- b
	}
	close(ch)
	return ch
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(params RenderParams) BoxStream

// Render implements Surface.
func (f SurfaceFunc) Render(params RenderParams) BoxStream {
	return f(params)
}

// finalBox drains the stream and returns the last box reported, or initial
// when nothing was reported.
func finalBox(stream BoxStream, initial geometry.Box) (geometry.Box, bool) {
	box, touched := initial, false
	if stream == nil {
		return box, false
	}
	for b := range stream {
		box, touched = b, true
	}
	return box, touched
}
