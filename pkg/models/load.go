package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/tinyrender/pkg/render"
)

// Load reads a model by extension (.obj, .gltf, .glb) and resolves its
// diffuse texture. An explicit texturePath must load. Otherwise a
// "<stem>_diffuse.tga" next to the model is tried, then any texture embedded
// in a glTF file; if neither exists the mesh renders untextured.
func Load(path, texturePath string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		mesh, err = LoadOBJ(path)
	case ".gltf", ".glb":
		mesh, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	if texturePath != "" {
		tex, err := render.LoadTexture(texturePath)
		if err != nil {
			return nil, err
		}
		mesh.Diffuse = tex
	} else if tex := loadSidecarTexture(path); tex != nil {
		mesh.Diffuse = tex
	}

	render.Logger().Info("mesh loaded",
		"model", path,
		"vertices", mesh.VertexCount(),
		"faces", mesh.FaceCount(),
		"textured", mesh.Diffuse != nil,
	)
	return mesh, nil
}

// DiffusePath returns the conventional diffuse map path for a model:
// obj/african_head.obj -> obj/african_head_diffuse.tga.
func DiffusePath(modelPath string) string {
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + "_diffuse.tga"
}

func loadSidecarTexture(modelPath string) *render.Texture {
	path := DiffusePath(modelPath)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		render.Logger().Debug("no diffuse texture", "path", path)
		return nil
	}

	tex, err := render.LoadTexture(path)
	if err != nil {
		render.Logger().Warn("ignoring diffuse texture", "path", path, "error", err)
		return nil
	}
	return tex
}
