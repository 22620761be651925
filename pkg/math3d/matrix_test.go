package math3d

import (
	"math"
	"testing"
)

func TestIdentityMatrix(t *testing.T) {
	m := IdentityMatrix(4)
	if m.Rows() != 4 || m.Cols() != 4 {
		t.Fatalf("shape = %dx%d, want 4x4", m.Rows(), m.Cols())
	}
	for r := range 4 {
		for c := range 4 {
			want := 0.0
			if r == c {
				want = 1
			}
			if m.At(r, c) != want {
				t.Errorf("At(%d,%d) = %v, want %v", r, c, m.At(r, c), want)
			}
		}
	}
}

func TestMatrixMul(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(3, 2)
	// a = [1 2 3; 4 5 6], b = [7 8; 9 10; 11 12]
	for i, v := range []float64{1, 2, 3, 4, 5, 6} {
		a.Set(i/3, i%3, v)
	}
	for i, v := range []float64{7, 8, 9, 10, 11, 12} {
		b.Set(i/2, i%2, v)
	}

	got := a.Mul(b)
	want := [2][2]float64{{58, 64}, {139, 154}}
	if got.Rows() != 2 || got.Cols() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", got.Rows(), got.Cols())
	}
	for r := range 2 {
		for c := range 2 {
			if got.At(r, c) != want[r][c] {
				t.Errorf("At(%d,%d) = %v, want %v", r, c, got.At(r, c), want[r][c])
			}
		}
	}
}

func TestMatrixMulIdentity(t *testing.T) {
	m := NewMatrix(4, 4)
	for i := range 16 {
		m.Set(i/4, i%4, float64(i+1))
	}
	got := IdentityMatrix(4).Mul(m)
	for r := range 4 {
		for c := range 4 {
			if got.At(r, c) != m.At(r, c) {
				t.Fatalf("I*M differs at (%d,%d): %v vs %v", r, c, got.At(r, c), m.At(r, c))
			}
		}
	}
}

func TestMatrixMulShapeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for 2x3 * 2x3")
		}
	}()
	NewMatrix(2, 3).Mul(NewMatrix(2, 3))
}

func TestNewMatrixInvalidShapePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for 0x4 matrix")
		}
	}()
	NewMatrix(0, 4)
}

func TestHomogeneousRoundTrip(t *testing.T) {
	v := V3(1.5, -2, 7)
	h := Homogeneous(v)
	if h.Rows() != 4 || h.Cols() != 1 || h.At(3, 0) != 1 {
		t.Fatalf("Homogeneous(%v) = %v", v, h)
	}
	got, ok := h.ToVec3()
	if !ok || got != v {
		t.Errorf("ToVec3 = %v, %v; want %v, true", got, ok, v)
	}
}

func TestToVec3DividesByW(t *testing.T) {
	h := NewMatrix(4, 1)
	h.Set(0, 0, 2)
	h.Set(1, 0, 4)
	h.Set(2, 0, 6)
	h.Set(3, 0, 2)
	got, ok := h.ToVec3()
	if !ok || got != V3(1, 2, 3) {
		t.Errorf("ToVec3 = %v, %v; want (1,2,3), true", got, ok)
	}
}

// A vertex on the camera plane has w == 0; the divide is refused rather than
// producing infinities.
func TestToVec3SingularW(t *testing.T) {
	m := IdentityMatrix(4)
	m.Set(3, 2, -1.0/3)
	got, ok := m.Transform(V3(1, 1, 3))
	if ok {
		t.Errorf("Transform on camera plane = %v, true; want ok=false", got)
	}
	if math.IsInf(got.X, 0) || math.IsNaN(got.X) {
		t.Errorf("singular result leaked non-finite value %v", got)
	}
}

func TestMatrixString(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Set(1, 1, 2.5)
	if got, want := m.String(), "[1 0]\n[0 2.5]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
