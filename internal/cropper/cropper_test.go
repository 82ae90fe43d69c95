package cropper

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
	"github.com/ironsheep/image-cropper-mcp/internal/imaging"
)

func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func boxOptions() Options {
	opts := DefaultOptions()
	opts.ReturnType = "box"
	return opts
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.RealtimeUpdate)
	assert.Equal(t, "#0000FF", opts.BoxColor)
	assert.Equal(t, 3, opts.StrokeWidth)
	assert.Nil(t, opts.AspectRatio)
	assert.Equal(t, "image", opts.ReturnType)
	assert.Nil(t, opts.BoxAlgorithm)
	assert.True(t, opts.ShouldResizeImage)
	assert.Empty(t, opts.SessionKey)
}

func TestCrop_DefaultBoxMapsBackToOriginal(t *testing.T) {
	c := New(StaticSurface{})

	res, err := c.Crop(testImage(1000, 500), boxOptions())
	require.NoError(t, err)

	assert.Equal(t, imaging.ModeBox, res.Type)
	assert.Nil(t, res.Image)
	assert.False(t, res.Touched)
	assert.Equal(t, geometry.Box{Left: 140, Top: 70, Width: 420, Height: 210}, res.DisplayBox)
	assert.Equal(t, geometry.Box{Left: 200, Top: 100, Width: 600, Height: 300}, res.Box)
}

func TestCrop_BoxRoundTripWithoutResize(t *testing.T) {
	img := testImage(1000, 500)
	want, err := geometry.Recommend(geometry.SizeOf(img), nil)
	require.NoError(t, err)

	opts := boxOptions()
	opts.ShouldResizeImage = false
	res, err := New(nil).Crop(img, opts)
	require.NoError(t, err)
	assert.Equal(t, want, res.Box)
	assert.True(t, res.Scale.IsIdentity())
}

func TestCrop_SquareAspect(t *testing.T) {
	opts := boxOptions()
	opts.ShouldResizeImage = false
	opts.AspectRatio = &geometry.Square

	res, err := New(nil).Crop(testImage(1000, 500), opts)
	require.NoError(t, err)
	assert.Equal(t, geometry.Box{Left: 350, Top: 100, Width: 300, Height: 300}, res.Box)
}

func TestCrop_ImageMode(t *testing.T) {
	img := testImage(200, 100)

	res, err := New(nil).Crop(img, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Image)

	assert.Equal(t, geometry.Box{Left: 40, Top: 20, Width: 120, Height: 60}, res.Box)
	assert.Equal(t, geometry.Size{Width: 120, Height: 60}, geometry.SizeOf(res.Image))
	assert.Equal(t, img.At(40, 20), res.Image.At(0, 0))
	assert.Equal(t, img.At(159, 79), res.Image.At(119, 59))
}

func TestCrop_ReturnTypeValidation(t *testing.T) {
	opts := DefaultOptions()
	opts.ReturnType = "BOX"
	_, err := New(nil).Crop(testImage(50, 50), opts)
	assert.NoError(t, err)

	opts.ReturnType = "banana"
	_, err = New(nil).Crop(testImage(50, 50), opts)
	require.ErrorIs(t, err, geometry.ErrInvalidArgument)
	assert.Contains(t, err.Error(), `{"image", "box"}`)
}

func TestCrop_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero ratio term", func(o *Options) { o.AspectRatio = &geometry.AspectRatio{W: 0, H: 3} }},
		{"bad color", func(o *Options) { o.BoxColor = "#zzzzzz" }},
		{"negative stroke", func(o *Options) { o.StrokeWidth = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := New(nil).Crop(testImage(50, 50), opts)
			assert.ErrorIs(t, err, geometry.ErrInvalidArgument)
		})
	}
}

func TestCrop_SurfaceEdits(t *testing.T) {
	edits := []geometry.Box{
		{Left: 10, Top: 10, Width: 50, Height: 50},
		{Left: 0, Top: 0, Width: 350, Height: 175},
	}

	res, err := New(StaticSurface{Boxes: edits}).Crop(testImage(1000, 500), boxOptions())
	require.NoError(t, err)
	assert.True(t, res.Touched)
	assert.Equal(t, edits[1], res.DisplayBox)
	assert.Equal(t, geometry.Box{Left: 0, Top: 0, Width: 500, Height: 250}, res.Box)
}

func TestCrop_SurfaceEditPastEdgeIsClamped(t *testing.T) {
	surface := StaticSurface{Boxes: []geometry.Box{{Left: 600, Top: 300, Width: 200, Height: 200}}}

	res, err := New(surface).Crop(testImage(1000, 500), boxOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Box.Right(), 1000)
	assert.LessOrEqual(t, res.Box.Bottom(), 500)
}

func TestCrop_DegenerateSurfaceBox(t *testing.T) {
	surface := StaticSurface{Boxes: []geometry.Box{{Left: 10, Top: 10, Width: 0, Height: 5}}}

	_, err := New(surface).Crop(testImage(100, 100), DefaultOptions())
	assert.ErrorIs(t, err, geometry.ErrDegenerateBox)
}

func TestCrop_SurfaceReceivesParams(t *testing.T) {
	var got RenderParams
	surface := SurfaceFunc(func(p RenderParams) BoxStream {
		got = p
		ch := make(chan geometry.Box)
		close(ch)
		return ch
	})

	opts := DefaultOptions()
	opts.AspectRatio = &geometry.Widescreen
	opts.RealtimeUpdate = false
	opts.BoxColor = "red"
	opts.StrokeWidth = 5

	_, err := New(surface).Crop(testImage(1000, 500), opts)
	require.NoError(t, err)

	assert.Equal(t, 700, got.CanvasWidth)
	assert.Equal(t, 350, got.CanvasHeight)
	assert.True(t, got.LockAspect)
	assert.False(t, got.RealtimeUpdate)
	assert.Equal(t, "#ff0000", got.BoxColor)
	assert.Equal(t, 5, got.StrokeWidth)
	assert.Len(t, got.ImageData, 4*700*350)
	assert.Zero(t, got.Box.Width%16)
	assert.Equal(t, got.Box.Width*9, got.Box.Height*16)
}

func TestStaticSurface_Semantics(t *testing.T) {
	boxes := []geometry.Box{{Left: 0, Top: 0, Width: 10, Height: 10}, {Left: 5, Top: 5, Width: 40, Height: 20}}
	params := RenderParams{CanvasWidth: 100, CanvasHeight: 100, RealtimeUpdate: false}

	var seen []geometry.Box
	for b := range (StaticSurface{Boxes: boxes}).Render(params) {
		seen = append(seen, b)
	}
	assert.Equal(t, boxes[1:], seen, "confirm-only surfaces report once")

	params.RealtimeUpdate = true
	params.LockAspect = true
	params.AspectRatio = &geometry.Square
	seen = nil
	for b := range (StaticSurface{Boxes: boxes}).Render(params) {
		seen = append(seen, b)
	}
	require.Len(t, seen, 2)
	assert.Equal(t, geometry.Box{Left: 5, Top: 5, Width: 20, Height: 20}, seen[1])
}

func TestCrop_BoxAlgorithm(t *testing.T) {
	var gotRatio *geometry.AspectRatio
	opts := boxOptions()
	opts.ShouldResizeImage = false
	opts.AspectRatio = &geometry.Square
	opts.BoxAlgorithm = func(img image.Image, ratio *geometry.AspectRatio) (geometry.Box, error) {
		gotRatio = ratio
		return geometry.Box{Left: 0, Top: 0, Width: 100, Height: 50}, nil
	}

	res, err := New(nil).Crop(testImage(300, 300), opts)
	require.NoError(t, err)
	assert.Equal(t, &geometry.Square, gotRatio)
	assert.Equal(t, geometry.Box{Left: 0, Top: 0, Width: 100, Height: 50}, res.Box, "no aspect post-processing")
}

func TestCrop_BoxAlgorithmError(t *testing.T) {
	opts := DefaultOptions()
	opts.BoxAlgorithm = func(image.Image, *geometry.AspectRatio) (geometry.Box, error) {
		return geometry.Box{}, fmt.Errorf("no subject: %w", geometry.ErrDegenerateBox)
	}
	_, err := New(nil).Crop(testImage(30, 30), opts)
	assert.ErrorIs(t, err, geometry.ErrDegenerateBox)
}

func TestCrop_SessionReseeds(t *testing.T) {
	var boxes []geometry.Box
	c := New(SurfaceFunc(func(p RenderParams) BoxStream {
		return StaticSurface{Boxes: boxes}.Render(p)
	}))
	img := testImage(1000, 500)

	opts := boxOptions()
	opts.SessionKey = "widget-1"
	boxes = []geometry.Box{{Left: 7, Top: 7, Width: 70, Height: 35}}
	_, err := c.Crop(img, opts)
	require.NoError(t, err)

	boxes = nil
	res, err := c.Crop(img, opts)
	require.NoError(t, err)
	assert.False(t, res.Touched)
	assert.Equal(t, geometry.Box{Left: 7, Top: 7, Width: 70, Height: 35}, res.DisplayBox)

	opts.SessionKey = "widget-2"
	res, err = c.Crop(img, opts)
	require.NoError(t, err)
	assert.Equal(t, geometry.Box{Left: 140, Top: 70, Width: 420, Height: 210}, res.DisplayBox)

	// A different canvas size does not reuse the stored box.
	opts.SessionKey = "widget-1"
	res, err = c.Crop(testImage(400, 400), opts)
	require.NoError(t, err)
	assert.Equal(t, geometry.Box{Left: 80, Top: 80, Width: 240, Height: 240}, res.DisplayBox)

	// A free-form box reused under a lock is brought to the ratio.
	opts.SessionKey = "widget-3"
	boxes = []geometry.Box{{Left: 7, Top: 7, Width: 70, Height: 35}}
	_, err = c.Crop(img, opts)
	require.NoError(t, err)

	boxes = nil
	opts.AspectRatio = &geometry.Square
	p, err := c.Prepare(img, opts)
	require.NoError(t, err)
	assert.True(t, p.Params.LockAspect)
	assert.Equal(t, geometry.Box{Left: 7, Top: 7, Width: 35, Height: 35}, p.Initial)

	res, err = c.Crop(img, opts)
	require.NoError(t, err)
	assert.False(t, res.Touched)
	assert.Equal(t, res.Box.Width, res.Box.Height)
	assert.Equal(t, geometry.Box{Left: 10, Top: 10, Width: 50, Height: 50}, res.Box)
}

func TestSessionStore_Concurrent(t *testing.T) {
	store := NewSessionStore()
	canvas := geometry.Size{Width: 100, Height: 100}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Put(fmt.Sprintf("k%d", i), canvas, geometry.Box{Left: i, Width: 1, Height: 1})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
	for i := 0; i < 50; i++ {
		box, ok := store.Get(fmt.Sprintf("k%d", i), canvas)
		require.True(t, ok)
		assert.Equal(t, i, box.Left)
	}

	store.Delete("k0")
	_, ok := store.Get("k0", canvas)
	assert.False(t, ok)

	store.Put("", canvas, geometry.Box{})
	assert.Equal(t, 49, store.Len())
}

func TestComplete_UsesGivenSurface(t *testing.T) {
	c := New(StaticSurface{Boxes: []geometry.Box{{Left: 1, Top: 1, Width: 2, Height: 2}}})

	p, err := c.Prepare(testImage(200, 100), boxOptions())
	require.NoError(t, err)

	res, err := c.Complete(p, StaticSurface{Boxes: []geometry.Box{{Left: 10, Top: 10, Width: 50, Height: 40}}})
	require.NoError(t, err)
	assert.True(t, res.Touched)
	assert.Equal(t, geometry.Box{Left: 10, Top: 10, Width: 50, Height: 40}, res.Box)

	res, err = c.Complete(p, nil)
	require.NoError(t, err)
	assert.False(t, res.Touched)
	assert.Equal(t, p.Initial, res.Box)
}
