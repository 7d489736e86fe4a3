package eigen

import (
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func plane(t *testing.T, rows, cols int, vals [][]float32) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetFloatAt(y, x, vals[y][x])
		}
	}
	return m
}

func fullMask(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetUCharAt(y, x, 0xFF)
		}
	}
	return m
}

func TestComputeAlignsWithDominantAxis(t *testing.T) {
	// Residual varies strongly along channel 0, not at all along channel 1:
	// the dominant eigenvector should point almost entirely along axis 0.
	c0 := plane(t, 1, 4, [][]float32{{-3, -1, 1, 3}})
	c1 := plane(t, 1, 4, [][]float32{{0, 0, 0, 0}})
	defer c0.Close()
	defer c1.Close()

	mask := fullMask(t, 1, 4)
	defer mask.Close()

	v := Compute([]gocv.Mat{c0, c1}, mask, 3, []float64{0.5, -0.5})

	if math.Abs(v[0]) < 0.99 {
		t.Fatalf("expected eigenvector to align with axis 0, got %v", v)
	}
	if math.Abs(v[1]) > 0.1 {
		t.Fatalf("expected near-zero component on the flat axis, got %v", v)
	}

	norm := math.Hypot(v[0], v[1])
	if math.Abs(norm-1) > 1e-6 {
		t.Fatalf("eigenvector should be unit length, got norm %f", norm)
	}
}

func TestComputeZeroResidualUnderflowsToZero(t *testing.T) {
	c0 := plane(t, 1, 4, [][]float32{{0, 0, 0, 0}})
	defer c0.Close()

	mask := fullMask(t, 1, 4)
	defer mask.Close()

	v := Compute([]gocv.Mat{c0}, mask, 2, []float64{0.5})
	if v[0] != 0 {
		t.Fatalf("expected zero eigenvector for all-zero residual, got %v", v)
	}
}

func TestComputeRespectsMask(t *testing.T) {
	// Large residual outside the mask must not influence the eigenvector.
	c0 := plane(t, 1, 4, [][]float32{{100, 100, -1, 1}})
	c1 := plane(t, 1, 4, [][]float32{{100, -100, 0, 0}})
	defer c0.Close()
	defer c1.Close()

	mask := gocv.NewMatWithSize(1, 4, gocv.MatTypeCV8U)
	defer mask.Close()
	mask.SetUCharAt(0, 2, 0xFF)
	mask.SetUCharAt(0, 3, 0xFF)

	v := Compute([]gocv.Mat{c0, c1}, mask, 3, []float64{0.5, -0.5})

	if math.Abs(v[0]) < 0.99 {
		t.Fatalf("masked-in pixels only vary along axis 0, expected alignment there, got %v", v)
	}
}

func TestInitVectorDeterministicAlternation(t *testing.T) {
	v := InitVector(4, false, func() float64 { t.Fatal("uniform() should not be called when useRNG is false"); return 0 })
	want := []float64{0.5, -0.5, 0.5, -0.5}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("InitVector(useRNG=false)[%d] = %f, want %f", i, v[i], want[i])
		}
	}
}

func TestInitVectorUsesUniformWhenRNGEnabled(t *testing.T) {
	calls := 0
	v := InitVector(3, true, func() float64 {
		calls++
		return 0.25
	})
	if calls != 3 {
		t.Fatalf("expected 3 calls to uniform(), got %d", calls)
	}
	for _, x := range v {
		if x != 0.25 {
			t.Fatalf("expected all entries to be 0.25, got %v", v)
		}
	}
}
