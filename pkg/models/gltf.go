package models

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// LoadGLTF loads a .gltf or .glb file. Every triangle primitive of every mesh
// is merged into one Mesh, with texture coordinates shared by position index.
// The base color image of the first textured material, if any, becomes the
// diffuse map.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := readGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()

	tex, err := embeddedDiffuse(doc, filepath.Dir(path))
	if err != nil {
		render.Logger().Warn("ignoring embedded texture", "model", path, "error", err)
	}
	mesh.Diffuse = tex

	return mesh, nil
}

func readGLTFMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no area to fill.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		appendPrimitive(mesh, positions, uvs, indices)
	}
	return nil
}

// appendPrimitive adds one primitive's vertices and triangles to mesh. glTF
// places the uv origin at the top-left of the image, so v is flipped to the
// bottom-left origin render.Texture expects.
func appendPrimitive(mesh *Mesh, positions [][3]float32, uvs [][2]float32, indices []uint32) {
	baseV := len(mesh.Positions)
	baseUV := len(mesh.UVs)
	hasUV := len(uvs) == len(positions)

	for _, p := range positions {
		mesh.Positions = append(mesh.Positions, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
	}
	if hasUV {
		for _, uv := range uvs {
			mesh.UVs = append(mesh.UVs, math3d.V2(float64(uv[0]), 1-float64(uv[1])))
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var f Face
		for c := range 3 {
			idx := int(indices[i+c])
			f.V[c] = baseV + idx
			f.UV[c] = -1
			if hasUV {
				f.UV[c] = baseUV + idx
			}
		}
		mesh.Faces = append(mesh.Faces, f)
	}
}

// embeddedDiffuse decodes the base color texture of the first material that
// has one, falling back to the first image in the document.
func embeddedDiffuse(doc *gltf.Document, dir string) (*render.Texture, error) {
	source := -1
	for _, mat := range doc.Materials {
		if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
			continue
		}
		tex := mat.PBRMetallicRoughness.BaseColorTexture.Index
		if tex < len(doc.Textures) && doc.Textures[tex].Source != nil {
			source = *doc.Textures[tex].Source
			break
		}
	}
	if source < 0 && len(doc.Images) > 0 {
		source = 0
	}
	if source < 0 || source >= len(doc.Images) {
		return nil, nil
	}

	img := doc.Images[source]
	data, err := imageData(doc, img, dir)
	if err != nil {
		return nil, err
	}

	hint := img.MimeType
	if hint == "" {
		hint = filepath.Ext(img.URI)
	}
	tex, err := render.DecodeTexture(bytes.NewReader(data), hint)
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", source, err)
	}
	return tex, nil
}

func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil, fmt.Errorf("image buffer view out of range")
		}
		return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
	case strings.HasPrefix(img.URI, "data:"):
		return img.MarshalData()
	case img.URI != "":
		return os.ReadFile(filepath.Join(dir, img.URI))
	default:
		return nil, fmt.Errorf("image has no data")
	}
}
