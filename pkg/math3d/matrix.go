package math3d

import (
	"fmt"
	"math"
)

// singularW is the smallest homogeneous w that is still divided by.
const singularW = 1e-9

// Matrix is a dense row-major matrix of arbitrary size. It backs the
// projection and viewport transforms, which are built fresh for every render.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero matrix with the given shape.
// It panics if either dimension is not positive.
func NewMatrix(rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("math3d: invalid matrix shape %dx%d", rows, cols))
	}
	return Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// IdentityMatrix returns the n×n identity.
func IdentityMatrix(n int) Matrix {
	m := NewMatrix(n, n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// At returns the element at (row, col).
func (m Matrix) At(row, col int) float64 {
	return m.data[row*m.cols+col]
}

// Set sets the element at (row, col).
func (m Matrix) Set(row, col int, v float64) {
	m.data[row*m.cols+col] = v
}

// Mul returns the product a * b. It panics if a.Cols() != b.Rows().
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Matrix) Mul(b Matrix) Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("math3d: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	m := NewMatrix(a.rows, b.cols)
	for r := range a.rows {
		for c := range b.cols {
			var sum float64
			for k := range a.cols {
				sum += a.data[r*a.cols+k] * b.data[k*b.cols+c]
			}
			m.data[r*m.cols+c] = sum
		}
	}
	return m
}

// Homogeneous embeds v as the 4×1 column (x, y, z, 1).
func Homogeneous(v Vec3) Matrix {
	m := NewMatrix(4, 1)
	m.data[0], m.data[1], m.data[2], m.data[3] = v.X, v.Y, v.Z, 1
	return m
}

// ToVec3 projects a 4×1 homogeneous column back to 3D by dividing the first
// three rows by w. ok is false when w is (nearly) zero: the point lies on the
// camera plane and has no finite projection.
func (m Matrix) ToVec3() (v Vec3, ok bool) {
	if m.rows != 4 || m.cols != 1 {
		panic(fmt.Sprintf("math3d: ToVec3 needs a 4x1 matrix, got %dx%d", m.rows, m.cols))
	}
	w := m.data[3]
	if math.Abs(w) < singularW {
		return Vec3{}, false
	}
	return Vec3{m.data[0] / w, m.data[1] / w, m.data[2] / w}, true
}

// Transform applies m to the point v through homogeneous coordinates.
func (m Matrix) Transform(v Vec3) (Vec3, bool) {
	return m.Mul(Homogeneous(v)).ToVec3()
}

// String formats the matrix one row per line.
func (m Matrix) String() string {
	s := ""
	for r := range m.rows {
		s += fmt.Sprint(m.data[r*m.cols : (r+1)*m.cols])
		if r < m.rows-1 {
			s += "\n"
		}
	}
	return s
}
