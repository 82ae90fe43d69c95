package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// ImageCache provides thread-safe caching of decoded source images keyed by path.
//
// The cropper reloads the same original image several times per session
// (prepare, preview, crop), so the decoded image is kept until it is evicted.
// Cached images are never mutated; every operation in this package copies.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/photo.jpg")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache ready for concurrent use.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, decoding it from disk on first use.
//
// Supported formats are PNG, JPEG, GIF and WebP. Errors wrap
// geometry.ErrImageDecode. Different spellings of the same path are cached
// separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %v", geometry.ErrImageDecode, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a single path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Decode decodes an image from r using the registered formats and returns the
// format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", geometry.ErrImageDecode, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: image has no pixels", geometry.ErrImageDecode)
	}
	return img, format, nil
}

// ImageInfo describes a loaded source image and the display size the
// cropper would scale it to.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "webp", or "unknown", from the extension.
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded color model carries alpha.
	HasAlpha bool `json:"has_alpha"`

	// Display is the size shown on the rendering surface under the limits
	// given to LoadImageInfo.
	Display geometry.Size `json:"display"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the cache and reports its metadata. Display
// is the size after fitting within limit; a zero limit leaves it unscaled.
func LoadImageInfo(cache *ImageCache, path string, limit geometry.Size) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".webp":
		format = "webp"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	size := geometry.SizeOf(img)
	display := size
	if limit.Width > 0 && limit.Height > 0 {
		display = geometry.ScaledSize(size, limit.Width, limit.Height)
	}
	return &ImageInfo{
		Width:         size.Width,
		Height:        size.Height,
		Format:        format,
		HasAlpha:      hasAlpha,
		Display:       display,
		FileSizeBytes: stat.Size(),
	}, nil
}

// GetDimensions returns only the width and height of the image at path.
func GetDimensions(cache *ImageCache, path string) (*geometry.Size, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	size := geometry.SizeOf(img)
	return &size, nil
}
