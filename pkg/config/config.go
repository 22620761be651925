// Package config holds the render settings, read from an optional JSON file
// and overridden by command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/imageio"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const maxDimension = 16384

// Config holds all render settings.
type Config struct {
	// Paths
	Model   string `json:"model"`
	Texture string `json:"texture"`
	Output  string `json:"output"`

	// Render settings
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Mode           string  `json:"mode"`
	CameraDistance float64 `json:"camera_distance"`
	Depth          float64 `json:"depth"`
	Light          string  `json:"light"` // "x,y,z"
	Yaw            float64 `json:"yaw"`   // Degrees about Y
	Pitch          float64 `json:"pitch"` // Degrees about X
	Filter         string  `json:"filter"`
	Background     string  `json:"background"` // "r,g,b"
	PreviewColumns int     `json:"preview_columns"`
}

// Flags holds CLI flag values that override config file settings. Zero
// values and nil pointers mean the flag was not given.
type Flags struct {
	Model          string
	Texture        string
	Output         string
	Width          int
	Height         int
	Mode           string
	CameraDistance float64
	Depth          float64
	Light          string
	Yaw            *float64
	Pitch          *float64
	Filter         string
	Background     string
	PreviewColumns int
}

// Load reads a JSON config file. Fields not set in the file keep their zero
// values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies flag overrides and then fills any empty field with its
// default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	override(&c.Model, flags.Model)
	override(&c.Texture, flags.Texture)
	override(&c.Output, flags.Output)
	override(&c.Mode, flags.Mode)
	override(&c.Light, flags.Light)
	override(&c.Filter, flags.Filter)
	override(&c.Background, flags.Background)
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.CameraDistance != 0 {
		c.CameraDistance = flags.CameraDistance
	}
	if flags.Depth != 0 {
		c.Depth = flags.Depth
	}
	if flags.Yaw != nil {
		c.Yaw = *flags.Yaw
	}
	if flags.Pitch != nil {
		c.Pitch = *flags.Pitch
	}
	if flags.PreviewColumns > 0 {
		c.PreviewColumns = flags.PreviewColumns
	}

	// Defaults
	fallback(&c.Mode, render.ModeTextured.String())
	fallback(&c.Model, "obj/african_head.obj")
	fallback(&c.Output, "output.tga")
	fallback(&c.Light, "0,0,-1")
	fallback(&c.Filter, "nearest")
	fallback(&c.Background, "0,0,0")

	size := 800
	if strings.EqualFold(c.Mode, render.ModeTriangles.String()) {
		size = 200
	}
	if c.Width == 0 {
		c.Width = size
	}
	if c.Height == 0 {
		c.Height = size
	}
	if c.CameraDistance == 0 {
		c.CameraDistance = 3
	}
	if c.Depth == 0 {
		c.Depth = 255
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func fallback(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Settings holds the parsed form of the string-valued options.
type Settings struct {
	Mode       render.Mode
	Filter     render.FilterMode
	Light      math3d.Vec3 // Unit length
	Background color.RGBA
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	_, err := c.Settings()
	return err
}

// Settings validates c and returns its parsed options. The error is the
// first invalid setting, wrapping ErrInvalid.
func (c Config) Settings() (Settings, error) {
	var s Settings
	if c.Width <= 0 || c.Height <= 0 || c.Width > maxDimension || c.Height > maxDimension {
		return s, fmt.Errorf("%w: size %dx%d must be within 1..%d", ErrInvalid, c.Width, c.Height, maxDimension)
	}

	var err error
	if s.Mode, err = c.RenderMode(); err != nil {
		return s, err
	}
	if s.Filter, err = c.FilterMode(); err != nil {
		return s, err
	}
	if !(c.CameraDistance > 0) {
		return s, fmt.Errorf("%w: camera distance %v must be positive", ErrInvalid, c.CameraDistance)
	}
	if !(c.Depth > 0) {
		return s, fmt.Errorf("%w: depth %v must be positive", ErrInvalid, c.Depth)
	}
	if s.Light, err = c.LightDir(); err != nil {
		return s, err
	}
	if s.Background, err = c.BackgroundColor(); err != nil {
		return s, err
	}
	if c.PreviewColumns < 0 {
		return s, fmt.Errorf("%w: preview columns %d must not be negative", ErrInvalid, c.PreviewColumns)
	}
	if _, err := imageio.FormatFromPath(c.Output); err != nil {
		return s, fmt.Errorf("%w: output: %w", ErrInvalid, err)
	}
	return s, nil
}

// RenderMode parses Mode.
func (c Config) RenderMode() (render.Mode, error) {
	m, err := render.ParseMode(c.Mode)
	if err != nil {
		return m, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return m, nil
}

// FilterMode parses Filter.
func (c Config) FilterMode() (render.FilterMode, error) {
	f, err := render.ParseFilterMode(c.Filter)
	if err != nil {
		return f, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return f, nil
}

// LightDir parses Light into a unit vector.
func (c Config) LightDir() (math3d.Vec3, error) {
	v, err := parseFloats(c.Light, 3)
	if err != nil {
		return math3d.Vec3{}, fmt.Errorf("%w: light %q: %w", ErrInvalid, c.Light, err)
	}
	dir := math3d.V3(v[0], v[1], v[2])
	if dir.Len() == 0 {
		return math3d.Vec3{}, fmt.Errorf("%w: light direction must not be zero", ErrInvalid)
	}
	return dir.Normalize(), nil
}

// BackgroundColor parses Background.
func (c Config) BackgroundColor() (color.RGBA, error) {
	v, err := parseFloats(c.Background, 3)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: background %q: %w", ErrInvalid, c.Background, err)
	}
	for _, x := range v {
		if x < 0 || x > 255 || x != float64(int(x)) {
			return color.RGBA{}, fmt.Errorf("%w: background %q: channels must be integers in 0..255", ErrInvalid, c.Background)
		}
	}
	return color.RGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 255}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
