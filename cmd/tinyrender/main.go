// tinyrender - Progressive Software Rasterizer
// Renders an OBJ or glTF model to an image file, one frame, no GPU.
//
// Modes:
//
//	textured   - Perspective, depth-tested, diffuse-mapped (default)
//	flat       - Orthographic, depth-tested, flat Lambert gray
//	wireframe  - Orthographic mesh edges
//	triangles  - Three filled 2-D triangles on a 200x200 canvas
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/taigrr/tinyrender/pkg/config"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

var (
	configFile  = flag.String("config", "", "Path to config.json file")
	modelPath   = flag.String("model", "", "Model file (.obj, .gltf, .glb) (default obj/african_head.obj)")
	texturePath = flag.String("texture", "", "Diffuse texture (TGA/PNG/JPG) (default <model>_diffuse.tga)")
	outputPath  = flag.String("o", "", "Output image (.tga, .png, .webp, .bmp, .tiff) (default output.tga)")
	width       = flag.Int("width", 0, "Image width (default 800, 200 for triangles)")
	height      = flag.Int("height", 0, "Image height (default 800, 200 for triangles)")
	mode        = flag.String("mode", "", "Render mode: textured, flat, wireframe, triangles")
	cameraDist  = flag.Float64("camera", 0, "Camera distance on +Z (default 3)")
	depth       = flag.Float64("depth", 0, "Depth range of the viewport (default 255)")
	light       = flag.String("light", "", "Light direction x,y,z (default 0,0,-1)")
	yaw         = flag.Float64("yaw", 0, "Model rotation about Y in degrees")
	pitch       = flag.Float64("pitch", 0, "Model rotation about X in degrees")
	filter      = flag.String("filter", "", "Texture filter: nearest, bilinear")
	bgColor     = flag.String("bg", "", "Background color (R,G,B) (default 0,0,0)")
	preview     = flag.Int("preview", 0, "Print an ANSI preview this many columns wide")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyrender - Progressive Software Rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyrender [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	var cfg config.Config
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.Resolve(collectFlags())
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	renderMode := settings.Mode

	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	fb.Clear(settings.Background)

	var r *render.Rasterizer
	if renderMode == render.ModeTriangles {
		r = render.NewRasterizer(fb, render.WithDepthTest(false))
		r.Draw(nil, renderMode)
	} else {
		mesh, err := loadMesh(cfg, settings.Filter)
		if err != nil {
			return err
		}

		var cam *render.Camera
		if renderMode == render.ModeTextured {
			cam = &render.Camera{Distance: cfg.CameraDistance}
		}
		vp := render.FullViewport(cfg.Width, cfg.Height, cfg.Depth)
		transform := render.ScreenTransform(vp, cam)
		logger.Debug("screen transform", "viewport", vp, "matrix", transform.String())

		r = render.NewRasterizer(fb,
			render.WithTransform(transform),
			render.WithLight(settings.Light),
		)
		r.Draw(mesh, renderMode)
	}

	// Origin at the bottom-left.
	fb.FlipVertically()
	if err := fb.WriteFile(cfg.Output); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	logger.Info("image written",
		"path", cfg.Output,
		"mode", renderMode,
		"width", cfg.Width,
		"height", cfg.Height,
		"stats", r.Stats,
	)

	if cfg.PreviewColumns > 0 {
		fmt.Print(fb.Preview(cfg.PreviewColumns))
	}
	return nil
}

// collectFlags returns only the flags given on the command line, so file
// values survive unless explicitly overridden.
func collectFlags() config.Flags {
	f := config.Flags{
		Model:          *modelPath,
		Texture:        *texturePath,
		Output:         *outputPath,
		Width:          *width,
		Height:         *height,
		Mode:           *mode,
		CameraDistance: *cameraDist,
		Depth:          *depth,
		Light:          *light,
		Filter:         *filter,
		Background:     *bgColor,
		PreviewColumns: *preview,
	}
	if f.Model == "" && flag.NArg() > 0 {
		f.Model = flag.Arg(0)
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "yaw":
			f.Yaw = yaw
		case "pitch":
			f.Pitch = pitch
		}
	})
	return f
}

// loadMesh loads the model, fits it into the unit cube if it does not
// already fit, and applies the configured rotation.
func loadMesh(cfg config.Config, filter render.FilterMode) (*models.Mesh, error) {
	mesh, err := models.Load(cfg.Model, cfg.Texture)
	if err != nil {
		return nil, err
	}

	if mesh.Diffuse != nil {
		mesh.Diffuse.FilterMode = filter
	}
	if !mesh.FitsUnitCube() {
		render.Logger().Debug("normalizing mesh", "min", mesh.BoundsMin, "max", mesh.BoundsMax)
		mesh.Normalize()
	}
	if cfg.Yaw != 0 || cfg.Pitch != 0 {
		rot := math3d.RotateY(cfg.Yaw * math.Pi / 180).Mul(math3d.RotateX(cfg.Pitch * math.Pi / 180))
		mesh.Transform(rot)
	}
	return mesh, nil
}
