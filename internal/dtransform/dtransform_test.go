package dtransform

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

func TestComputeEdgeWeightsFlatGuideIsAllOnes(t *testing.T) {
	guide := plane(t, 4, 4, [][]float32{
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	})
	defer guide.Close()

	ew := ComputeEdgeWeights([]gocv.Mat{guide}, 8, 0.2)
	defer ew.Close()

	if ew.H.Rows() != 4 || ew.H.Cols() != 3 {
		t.Fatalf("H shape = %dx%d, want 4x3", ew.H.Rows(), ew.H.Cols())
	}
	if ew.V.Rows() != 3 || ew.V.Cols() != 4 {
		t.Fatalf("V shape = %dx%d, want 3x4", ew.V.Rows(), ew.V.Cols())
	}
	for y := 0; y < ew.H.Rows(); y++ {
		for x := 0; x < ew.H.Cols(); x++ {
			v := ew.H.GetFloatAt(y, x)
			if math.Abs(float64(v-1)) > 1e-5 {
				t.Fatalf("flat guide should give edge weight 1, got %f at (%d,%d)", v, y, x)
			}
		}
	}
}

func TestComputeEdgeWeightsStepEdgeIsLow(t *testing.T) {
	guide := plane(t, 2, 4, [][]float32{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	})
	defer guide.Close()

	ew := ComputeEdgeWeights([]gocv.Mat{guide}, 8, 0.1)
	defer ew.Close()

	atEdge := ew.H.GetFloatAt(0, 1) // between columns 1 and 2, the step
	awayFromEdge := ew.H.GetFloatAt(0, 0)

	if atEdge >= awayFromEdge {
		t.Fatalf("edge weight at the step (%f) should be lower than away from it (%f)", atEdge, awayFromEdge)
	}
}

func TestFilterSmoothsFlatRegionsAndPreservesEdge(t *testing.T) {
	rows, cols := 4, 8
	vals := make([][]float32, rows)
	for y := range vals {
		vals[y] = make([]float32, cols)
		for x := 0; x < cols; x++ {
			if x < 4 {
				vals[y][x] = 0
			} else {
				vals[y][x] = 100
			}
		}
	}
	guide := plane(t, rows, cols, vals)
	defer guide.Close()

	noisy := make([][]float32, rows)
	for y := range noisy {
		noisy[y] = make([]float32, cols)
		copy(noisy[y], vals[y])
	}
	noisy[0][1] = 40 // noise spike inside the left flat region
	src := plane(t, rows, cols, noisy)
	defer src.Close()

	ew := ComputeEdgeWeights([]gocv.Mat{guide}, 8, 0.1)
	defer ew.Close()

	f := New(ew.H, ew.V, 8, 0.1, 1)
	dst := f.Filter(src)
	defer dst.Close()

	if dst.Rows() != rows || dst.Cols() != cols {
		t.Fatalf("Filter changed plane shape: %dx%d", dst.Rows(), dst.Cols())
	}

	if spike := dst.GetFloatAt(0, 1); spike >= 40 {
		t.Fatalf("expected the noise spike to be smoothed below its input 40, got %f", spike)
	}

	left := dst.GetFloatAt(0, 0)
	right := dst.GetFloatAt(0, 7)
	if right-left < 50 {
		t.Fatalf("expected the step edge to survive filtering, got left=%f right=%f", left, right)
	}
}

// TestFilterAtDefaultIterationsUsesRawEdgeWeights pins down the K=1 case:
// scale_k(sigma_s, 1, 1) reduces to sigma_s itself, not 1, so raising the
// edge tables to that power would silently rescale them away from the raw
// per-pixel weight computed by ComputeEdgeWeights. The default iteration
// count (Config.DTIterations == 1) must apply exp(-sqrt2/sigma_s * dist)
// unmodified.
func TestFilterAtDefaultIterationsUsesRawEdgeWeights(t *testing.T) {
	rows, cols := 3, 5
	vals := [][]float32{
		{0, 0, 5, 5, 5},
		{0, 1, 5, 5, 4},
		{0, 0, 5, 6, 5},
	}
	guide := plane(t, rows, cols, vals)
	defer guide.Close()
	src := plane(t, rows, cols, vals)
	defer src.Close()

	ew := ComputeEdgeWeights([]gocv.Mat{guide}, 8, 0.1)
	defer ew.Close()

	want := src.Clone()
	defer want.Close()
	applyHorizontal(want, ew.H)
	applyVertical(want, ew.V)

	f := New(ew.H, ew.V, 8, 0.1, 1)
	got := f.Filter(src)
	defer got.Close()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			w := want.GetFloatAt(y, x)
			g := got.GetFloatAt(y, x)
			if math.Abs(float64(w-g)) > 1e-6 {
				t.Fatalf("K=1 output diverges from raw-edge-weight sweep at (%d,%d): want %f, got %f", y, x, w, g)
			}
		}
	}
}
