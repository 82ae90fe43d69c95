package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// createTestImage writes a solid PNG into the test's temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestPNG(t, "test-image.png", createInMemoryImage(width, height, c))
}

func writeTestPNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Fatalf("new cache holds %d images", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/to/image.png"); !errors.Is(err, geometry.ErrImageDecode) {
		t.Errorf("missing file: got %v, want ErrImageDecode", err)
	}

	bad := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); !errors.Is(err, geometry.ErrImageDecode) {
		t.Errorf("invalid data: got %v, want ErrImageDecode", err)
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads were cached: %d entries", cache.Len())
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	a := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})
	b := writeTestPNG(t, "other.png", createInMemoryImage(20, 20, color.White))

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	if cache.Len() != 1 {
		t.Errorf("after Evict: %d entries, want 1", cache.Len())
	}
	cache.Evict("/nonexistent/path")

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

var defaultLimit = geometry.Size{Width: geometry.MaxDisplayWidth, Height: geometry.MaxDisplayHeight}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestPNG(t, "wide.png", createInMemoryImage(1400, 200, color.RGBA{255, 128, 64, 255}))

	info, err := LoadImageInfo(cache, imgPath, defaultLimit)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 1400 || info.Height != 200 {
		t.Errorf("size: got %dx%d, want 1400x200", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.Display != (geometry.Size{Width: 700, Height: 100}) {
		t.Errorf("Display: got %v, want 700x100", info.Display)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_Limits(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestPNG(t, "limits.png", createInMemoryImage(1000, 500, color.RGBA{0, 0, 0, 255}))

	tests := []struct {
		name  string
		limit geometry.Size
		want  geometry.Size
	}{
		{"small limit", geometry.Size{Width: 100, Height: 100}, geometry.Size{Width: 100, Height: 50}},
		{"height bound", geometry.Size{Width: 2000, Height: 250}, geometry.Size{Width: 500, Height: 250}},
		{"no limit", geometry.Size{}, geometry.Size{Width: 1000, Height: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := LoadImageInfo(cache, imgPath, tt.limit)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Display != tt.want {
				t.Errorf("Display: got %v, want %v", info.Display, tt.want)
			}
		})
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".jpg", "jpeg"},
		{".JPEG", "jpeg"},
		{".gif", "gif"},
		{".webp", "webp"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			// A PNG payload regardless of extension; detection is by name.
			path := writeTestPNG(t, "test-format"+tt.ext, image.NewRGBA(image.Rect(0, 0, 10, 10)))

			info, err := LoadImageInfo(NewImageCache(), path, defaultLimit)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
		})
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 300, 200, color.RGBA{100, 100, 100, 255})

	dims, err := GetDimensions(cache, imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("got %v, want 300x200", dims)
	}

	if _, err := GetDimensions(cache, "/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}
