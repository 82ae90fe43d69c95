package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

func TestRenderPreview(t *testing.T) {
	img := createInMemoryImage(100, 80, color.White)
	box := geometry.Box{Left: 10, Top: 20, Width: 30, Height: 40}

	out, err := RenderPreview(img, box, "#0000FF", 3)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}

	blue := color.RGBA{0, 0, 255, 255}
	white := color.RGBA{255, 255, 255, 255}
	checks := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"top-left corner", 10, 20, blue},
		{"inside stroke", 12, 30, blue},
		{"past stroke", 13, 30, white},
		{"right edge", 39, 30, blue},
		{"bottom edge", 20, 59, blue},
		{"outside box", 5, 5, white},
		{"just right of box", 40, 30, white},
	}
	for _, c := range checks {
		if got := rgbaAt(out, c.x, c.y); got != c.want {
			t.Errorf("%s (%d,%d): got %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}

	if got := rgbaAt(img, 10, 20); got != white {
		t.Error("RenderPreview modified its input")
	}
}

func TestRenderPreview_ZeroStroke(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	out, err := RenderPreview(img, geometry.Box{Left: 2, Top: 2, Width: 10, Height: 10}, "red", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(out, 2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("zero stroke drew %v", got)
	}
}

func TestRenderPreview_Errors(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	box := geometry.Box{Width: 5, Height: 5}

	if _, err := RenderPreview(img, box, "not-a-color", 1); !errors.Is(err, geometry.ErrInvalidArgument) {
		t.Errorf("bad color: got %v", err)
	}
	if _, err := RenderPreview(img, box, "blue", -1); !errors.Is(err, geometry.ErrInvalidArgument) {
		t.Errorf("negative stroke: got %v", err)
	}
	if _, err := RenderPreview(img, geometry.Box{}, "blue", 1); !errors.Is(err, geometry.ErrDegenerateBox) {
		t.Errorf("empty box: got %v", err)
	}
}

func TestMask(t *testing.T) {
	img := createPatternImage(100, 100)
	box := geometry.Box{Left: 40, Top: 40, Width: 20, Height: 20}

	out, err := Mask(img, box)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	if got := geometry.SizeOf(out); got != (geometry.Size{Width: 100, Height: 100}) {
		t.Fatalf("size: got %v", got)
	}

	black := color.RGBA{0, 0, 0, 255}
	if got := rgbaAt(out, 0, 0); got != black {
		t.Errorf("outside box: got %v, want black", got)
	}
	if got := rgbaAt(out, 40, 40); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("box top-left: got %v, want red", got)
	}
	if got := rgbaAt(out, 59, 59); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("box bottom-right: got %v, want white", got)
	}
	if got := rgbaAt(out, 60, 60); got != black {
		t.Errorf("just past box: got %v, want black", got)
	}
}

func TestMask_CopiesTransparentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	out, err := Mask(img, geometry.Box{Left: 2, Top: 2, Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	if got := rgbaAt(out, 3, 3); got != (color.RGBA{}) {
		t.Errorf("inside box: got %v, want transparent", got)
	}
	if got := rgbaAt(out, 8, 8); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("outside box: got %v, want black", got)
	}
}

func TestMask_OutOfBounds(t *testing.T) {
	img := createPatternImage(10, 10)
	if _, err := Mask(img, geometry.Box{Left: 5, Top: 5, Width: 10, Height: 2}); !errors.Is(err, geometry.ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}
