package hfilter

import (
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func newPlane(t *testing.T, rows, cols int, vals [][]float32) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetFloatAt(y, x, vals[y][x])
		}
	}
	return m
}

func TestRunConstantPlaneIsUnchanged(t *testing.T) {
	src := newPlane(t, 4, 4, [][]float32{
		{5, 5, 5, 5},
		{5, 5, 5, 5},
		{5, 5, 5, 5},
		{5, 5, 5, 5},
	})
	defer src.Close()

	dst := Run(src, 2.0)
	defer dst.Close()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := dst.GetFloatAt(y, x)
			if math.Abs(float64(got-5)) > 1e-4 {
				t.Fatalf("constant plane changed at (%d,%d): got %f", y, x, got)
			}
		}
	}
}

func TestRunSmoothsAnImpulse(t *testing.T) {
	rows, cols := 9, 9
	vals := make([][]float32, rows)
	for y := range vals {
		vals[y] = make([]float32, cols)
	}
	vals[4][4] = 100

	src := newPlane(t, rows, cols, vals)
	defer src.Close()

	dst := Run(src, 3.0)
	defer dst.Close()

	center := dst.GetFloatAt(4, 4)
	neighbor := dst.GetFloatAt(4, 5)
	corner := dst.GetFloatAt(0, 0)

	if center <= neighbor {
		t.Fatalf("expected center %f to dominate neighbor %f", center, neighbor)
	}
	if corner >= neighbor {
		t.Fatalf("expected corner %f to be smaller than near-impulse neighbor %f", corner, neighbor)
	}
	if center >= 100 {
		t.Fatalf("filtering must not amplify the impulse: got %f", center)
	}
}

func TestRunDoesNotMutateSource(t *testing.T) {
	src := newPlane(t, 3, 3, [][]float32{
		{0, 10, 0},
		{10, 100, 10},
		{0, 10, 0},
	})
	defer src.Close()

	before := src.Clone()
	defer before.Close()

	dst := Run(src, 1.5)
	defer dst.Close()

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if src.GetFloatAt(y, x) != before.GetFloatAt(y, x) {
				t.Fatalf("Run mutated its source plane at (%d,%d)", y, x)
			}
		}
	}
}
