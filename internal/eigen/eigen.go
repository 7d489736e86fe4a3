// Package eigen computes the dominant eigenvector of a masked residual
// field via power iteration, the core of the manifold tree's clustering
// step: pixels are split by the sign of their projection onto this
// vector.
package eigen

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"adaptive-manifold-filter/internal/gocvutil"
)

// zeroNormEpsilon is the norm below which the eigenvector estimate is
// treated as numerically zero (spec §7: "eigenvector norm underflow →
// treat eigenvector as zero").
const zeroNormEpsilon = 1e-12

// Compute runs num_pca_iterations of masked power iteration over the
// per-pixel residual vectors formed by residual[c][y,x], restricted to
// pixels where mask is non-zero, starting from init (length == len(residual)).
// It returns the normalized dominant eigenvector, or an all-zero vector
// if the estimate underflows.
func Compute(residual []gocv.Mat, mask gocv.Mat, iterations int, init []float64) []float64 {
	c := len(residual)
	v := append([]float64(nil), init...)
	h := mask.Rows()
	w := mask.Cols()

	pixel := make([]float64, c)
	sum := make([]float64, c)

	for it := 0; it < iterations; it++ {
		for i := range sum {
			sum[i] = 0
		}

		rows := make([][]float32, c)
		for y := 0; y < h; y++ {
			maskRow := gocvutil.ByteRow(mask, y)
			for cn := 0; cn < c; cn++ {
				rows[cn] = gocvutil.Row(residual[cn], y)
			}
			for x := 0; x < w; x++ {
				if maskRow[x] == 0 {
					continue
				}
				for cn := 0; cn < c; cn++ {
					pixel[cn] = float64(rows[cn][x])
				}
				dots := floats.Dot(v, pixel)
				floats.AddScaled(sum, dots, pixel)
			}
		}

		copy(v, sum)
	}

	vec := mat.NewVecDense(c, append([]float64(nil), v...))
	norm := mat.Norm(vec, 2)
	if norm < zeroNormEpsilon {
		return make([]float64, c)
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// InitVector builds the initial power-iteration vector. When useRNG is
// true each entry is one call to uniform (core's source draws from
// [-0.5, 0.5)); otherwise it
// alternates +0.5/-0.5 deterministically, per spec §4.1's "use_rng"
// parameter.
func InitVector(c int, useRNG bool, uniform func() float64) []float64 {
	v := make([]float64, c)
	for i := 0; i < c; i++ {
		if useRNG {
			v[i] = uniform()
		} else if i%2 == 0 {
			v[i] = 0.5
		} else {
			v[i] = -0.5
		}
	}
	return v
}
