package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
)

// Format is an output encoding for crop results.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

// ParseFormat accepts png, jpg, jpeg and webp in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: unsupported output format %q, try one of png, jpg, webp", geometry.ErrInvalidArgument, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// MimeType returns the media type of the format.
func (f Format) MimeType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case WebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// EncodeOptions controls Encode.
type EncodeOptions struct {
	Format   Format
	Quality  int  // JPEG/WebP quality, 1-100
	Lossless bool // WebP only
}

// DefaultEncodeOptions returns lossless PNG output.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Format: PNG, Quality: 90}
}

// Encode writes img to w in the requested format.
func Encode(w io.Writer, img image.Image, opts EncodeOptions) error {
	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = 90
	}
	switch opts.Format {
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case WebP:
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
	case PNG, "":
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return fmt.Errorf("%w: unsupported output format %q", geometry.ErrInvalidArgument, opts.Format)
	}
}

// Save encodes img to path, creating parent directories as needed.
func Save(img image.Image, path string, opts EncodeOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, img, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// EncodedImage is an image serialized for a JSON response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64 encodes img and wraps it for a JSON response.
func EncodeBase64(img image.Image, opts EncodeOptions) (*EncodedImage, error) {
	if opts.Format == "" {
		opts.Format = PNG
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    opts.Format.MimeType(),
	}, nil
}
