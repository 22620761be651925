package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads the v, vt and f records of an OBJ stream. Polygons are split
// into triangle fans. Negative indices count back from the most recent
// record. Normals, groups, materials and comments are ignored.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var p math3d.Vec3
			p, err = parseVec3(fields[1:])
			mesh.Positions = append(mesh.Positions, p)
		case "vt":
			var uv math3d.Vec2
			uv, err = parseVec2(fields[1:])
			mesh.UVs = append(mesh.UVs, uv)
		case "f":
			err = parseFace(mesh, fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedOBJ, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

// parseVec2 accepts "vt u v" and "vt u v w"; w is dropped.
func parseVec2(fields []string) (math3d.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return math3d.Vec2{}, err
	}
	return math3d.V2(f[0], f[1]), nil
}

type corner struct{ v, uv int }

func parseFace(mesh *Mesh, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}

	corners := make([]corner, len(fields))
	for i, tok := range fields {
		c, err := parseCorner(tok, len(mesh.Positions), len(mesh.UVs))
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		mesh.Faces = append(mesh.Faces, Face{
			V:  [3]int{a.v, b.v, c.v},
			UV: [3]int{a.uv, b.uv, c.uv},
		})
	}
	return nil
}

// parseCorner reads "v", "v/vt", "v/vt/vn" or "v//vn".
func parseCorner(tok string, nv, nuv int) (corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return corner{}, fmt.Errorf("bad face vertex %q", tok)
	}

	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return corner{}, fmt.Errorf("face vertex %q: %w", tok, err)
	}

	uv := -1
	if len(parts) > 1 && parts[1] != "" {
		uv, err = resolveIndex(parts[1], nuv)
		if err != nil {
			return corner{}, fmt.Errorf("face uv %q: %w", tok, err)
		}
	}
	return corner{v: v, uv: uv}, nil
}

// resolveIndex turns a 1-based or negative OBJ index into a 0-based one.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		return i - 1, nil
	case i < 0 && count+i >= 0:
		return count + i, nil
	default:
		return 0, fmt.Errorf("%w: %d with %d defined", ErrIndexOutOfRange, i, count)
	}
}
