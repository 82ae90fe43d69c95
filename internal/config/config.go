// Package config loads the cropper's JSON configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/image-cropper-mcp/internal/cropper"
	"github.com/ironsheep/image-cropper-mcp/internal/geometry"
	"github.com/ironsheep/image-cropper-mcp/internal/imaging"
)

// Config holds the application configuration
type Config struct {
	Display DisplayConfig `json:"display"`
	Box     BoxConfig     `json:"box"`
	Output  OutputConfig  `json:"output"`
}

// DisplayConfig holds the display-image limits
type DisplayConfig struct {
	MaxWidth  int  `json:"max_width"`
	MaxHeight int  `json:"max_height"`
	Resize    bool `json:"resize"`
}

// BoxConfig holds the defaults sent to the rendering surface
type BoxConfig struct {
	Color          string `json:"color"`
	StrokeWidth    int    `json:"stroke_width"`
	RealtimeUpdate bool   `json:"realtime_update"`
	AspectRatio    string `json:"aspect_ratio"`
}

// OutputConfig holds configuration for crop results
type OutputConfig struct {
	ReturnType string `json:"return_type"`
	Format     string `json:"format"`
	Quality    int    `json:"quality"`
	Lossless   bool   `json:"lossless"`
	Dir        string `json:"dir"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			MaxWidth:  geometry.MaxDisplayWidth,
			MaxHeight: geometry.MaxDisplayHeight,
			Resize:    true,
		},
		Box: BoxConfig{
			Color:          imaging.DefaultBoxColor,
			StrokeWidth:    imaging.DefaultStrokeWidth,
			RealtimeUpdate: true,
			AspectRatio:    "",
		},
		Output: OutputConfig{
			ReturnType: string(imaging.ModeImage),
			Format:     string(imaging.PNG),
			Quality:    90,
			Lossless:   false,
			Dir:        "./output",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Display.MaxWidth < 1 || c.Display.MaxHeight < 1 {
		return fmt.Errorf("%w: display.max_width and display.max_height must be positive", geometry.ErrInvalidArgument)
	}

	if _, err := imaging.ParseBoxColor(c.Box.Color); err != nil {
		return fmt.Errorf("box.color: %w", err)
	}

	if c.Box.StrokeWidth < 0 {
		return fmt.Errorf("%w: box.stroke_width must not be negative", geometry.ErrInvalidArgument)
	}

	if _, err := geometry.ParseAspectRatio(c.Box.AspectRatio); err != nil {
		return fmt.Errorf("box.aspect_ratio: %w", err)
	}

	if _, err := imaging.ParseMode(c.Output.ReturnType); err != nil {
		return fmt.Errorf("output.return_type: %w", err)
	}

	if _, err := imaging.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("%w: output.quality must be between 1 and 100", geometry.ErrInvalidArgument)
	}

	return nil
}

// CropperConfig returns the display limits for cropper.NewWithConfig.
func (c *Config) CropperConfig() cropper.Config {
	return cropper.Config{MaxWidth: c.Display.MaxWidth, MaxHeight: c.Display.MaxHeight}
}

// Options returns the per-request defaults described by the configuration.
func (c *Config) Options() (cropper.Options, error) {
	ratio, err := geometry.ParseAspectRatio(c.Box.AspectRatio)
	if err != nil {
		return cropper.Options{}, err
	}
	return cropper.Options{
		RealtimeUpdate:    c.Box.RealtimeUpdate,
		BoxColor:          c.Box.Color,
		StrokeWidth:       c.Box.StrokeWidth,
		AspectRatio:       ratio,
		ReturnType:        c.Output.ReturnType,
		ShouldResizeImage: c.Display.Resize,
	}, nil
}

// EncodeOptions returns the output encoding settings.
func (c *Config) EncodeOptions() (imaging.EncodeOptions, error) {
	format, err := imaging.ParseFormat(c.Output.Format)
	if err != nil {
		return imaging.EncodeOptions{}, err
	}
	return imaging.EncodeOptions{Format: format, Quality: c.Output.Quality, Lossless: c.Output.Lossless}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-cropper", "config.json")
}
