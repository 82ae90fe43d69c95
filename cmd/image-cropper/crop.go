package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/image-cropper-mcp/internal/config"
	"github.com/ironsheep/image-cropper-mcp/internal/cropper"
	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
	"github.com/ironsheep/image-cropper-mcp/internal/imaging"
)

// cropOutput is printed to stdout as JSON after a crop.
type cropOutput struct {
	*cropper.Result
	Output  string `json:"output,omitempty"`
	Preview string `json:"preview,omitempty"`
	Mask    string `json:"mask,omitempty"`
}

func runCrop(args []string) int {
	if err := cropCommand(args, os.Stdout); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		log.Printf("crop: %v", err)
		return 1
	}
	return 0
}

func cropCommand(args []string, stdout io.Writer) error {
	var in, out, aspect, returnType, boxFlag, format, configPath, previewPath, maskPath string
	var quality int
	var lossless, noResize bool

	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	fs.StringVar(&in, "in", "", "input image path (png/jpg/gif/webp)")
	fs.StringVar(&out, "out", "", "output image path (default <output.dir>/<name>_crop.<format>)")
	fs.StringVar(&aspect, "aspect", "", "aspect ratio W:H, or free")
	fs.StringVar(&returnType, "return", "", "image|box (default from config)")
	fs.StringVar(&boxFlag, "box", "", "final box left,top,width,height in display coordinates (default: recommended box)")
	fs.BoolVar(&noResize, "noresize", false, "do not scale the image down to the display limits")
	fs.StringVar(&format, "format", "", "output format png|jpg|webp (default from -out extension or config)")
	fs.IntVar(&quality, "quality", 0, "JPEG/WebP quality 1-100 (default from config)")
	fs.BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	fs.StringVar(&previewPath, "preview", "", "also write the box outline over the display image here")
	fs.StringVar(&maskPath, "mask", "", "also write the masked original here")
	fs.StringVar(&configPath, "config", "", "configuration file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if in == "" {
		fs.Usage()
		return fmt.Errorf("usage: %s crop -in input.jpg [-aspect 16:9] [-return image|box] [-box l,t,w,h] [-out crop.png]", filepath.Base(os.Args[0]))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if aspect != "" {
		if opts.AspectRatio, err = geometry.ParseAspectRatio(aspect); err != nil {
			return err
		}
	}
	if returnType != "" {
		opts.ReturnType = returnType
	}
	if noResize {
		opts.ShouldResizeImage = false
	}

	surface := cropper.StaticSurface{}
	if boxFlag != "" {
		box, err := parseBox(boxFlag)
		if err != nil {
			return err
		}
		surface.Boxes = []geometry.Box{box}
	}

	enc, err := encodeOptions(cfg, format, out, quality, lossless)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(in)
	if err != nil {
		return err
	}

	c := cropper.NewWithConfig(cfg.CropperConfig(), surface)
	p, err := c.Prepare(img, opts)
	if err != nil {
		return err
	}
	res, err := c.Complete(p, surface)
	if err != nil {
		return err
	}

	result := &cropOutput{Result: res}
	if res.Image != nil {
		if out == "" {
			name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			out = filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s_crop.%s", name, enc.Format))
		}
		if err := imaging.Save(res.Image, out, enc); err != nil {
			return err
		}
		log.Printf("wrote %s", out)
		result.Output = out
	}

	if previewPath != "" {
		preview, err := imaging.RenderPreview(p.Display, res.DisplayBox, p.Params.BoxColor, p.Params.StrokeWidth)
		if err != nil {
			return err
		}
		if err := saveByExtension(preview, previewPath); err != nil {
			return err
		}
		result.Preview = previewPath
	}

	if maskPath != "" {
		masked, err := imaging.Mask(img, res.Box)
		if err != nil {
			return err
		}
		if err := saveByExtension(masked, maskPath); err != nil {
			return err
		}
		result.Mask = maskPath
	}

	return writeJSON(stdout, result)
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(js)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// parseBox parses "left,top,width,height".
func parseBox(s string) (geometry.Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Box{}, fmt.Errorf("%w: box %q must be left,top,width,height", geometry.ErrInvalidArgument, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.Box{}, fmt.Errorf("%w: box %q: %v", geometry.ErrInvalidArgument, s, err)
		}
		v[i] = n
	}
	return geometry.Box{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

func encodeOptions(cfg *config.Config, format, out string, quality int, lossless bool) (imaging.EncodeOptions, error) {
	enc, err := cfg.EncodeOptions()
	if err != nil {
		return enc, err
	}
	switch {
	case format != "":
		if enc.Format, err = imaging.ParseFormat(format); err != nil {
			return enc, err
		}
	case out != "":
		if f, err := imaging.FormatFromPath(out); err == nil {
			enc.Format = f
		}
	}
	if quality != 0 {
		if quality < 1 || quality > 100 {
			return enc, fmt.Errorf("%w: quality %d must be between 1 and 100", geometry.ErrInvalidArgument, quality)
		}
		enc.Quality = quality
	}
	if lossless {
		enc.Lossless = true
	}
	return enc, nil
}

// saveByExtension writes a lossless preview in the format named by the file
// extension, PNG when the extension is unknown.
func saveByExtension(img image.Image, path string) error {
	enc := imaging.EncodeOptions{Format: imaging.PNG, Quality: 100, Lossless: true}
	if f, err := imaging.FormatFromPath(path); err == nil {
		enc.Format = f
	}
	return imaging.Save(img, path, enc)
}
