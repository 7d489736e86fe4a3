// Package hfilter implements the first-order recursive low-pass filter
// used to seed the AMF root manifold and to blur masked weight fields
// when building child manifold centroids.
//
// It applies a forward+backward sweep along rows, then the same
// forward+backward sweep along columns, each with feedback coefficient
// a = exp(-sqrt(2)/sigma). Two orthogonal first-order IIR smoothers
// composed this way approximate a Gaussian well enough for the AMF
// pipeline's purposes without ever materializing a 2D kernel.
package hfilter

import (
	"math"

	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/gocvutil"
)

// Run returns a new plane holding h_filter(src, sigma). src is left
// untouched.
func Run(src gocv.Mat, sigma float32) gocv.Mat {
	dst := src.Clone()
	RunInPlace(dst, sigma)
	return dst
}

// RunInPlace applies h_filter to dst in place. dst must already hold
// the values to be filtered (typically a clone of the source plane).
func RunInPlace(dst gocv.Mat, sigma float32) {
	a := float32(math.Exp(-math.Sqrt2 / float64(sigma)))
	w := dst.Cols()
	h := dst.Rows()

	for y := 0; y < h; y++ {
		row := gocvutil.Row(dst, y)
		for x := 1; x < w; x++ {
			row[x] = row[x] + a*(row[x-1]-row[x])
		}
		for x := w - 2; x >= 0; x-- {
			row[x] = row[x] + a*(row[x+1]-row[x])
		}
	}

	for y := 1; y < h; y++ {
		cur := gocvutil.Row(dst, y)
		prev := gocvutil.Row(dst, y-1)
		vertPass(cur, prev, a, w)
	}
	for y := h - 2; y >= 0; y-- {
		cur := gocvutil.Row(dst, y)
		prev := gocvutil.Row(dst, y+1)
		vertPass(cur, prev, a, w)
	}
}

// vertPass applies the vertical row-pass relation
// cur[x] = cur[x] + a*(prev[x] - cur[x]) across a row.
func vertPass(cur, prev []float32, a float32, w int) {
	for x := 0; x < w; x++ {
		cur[x] = cur[x] + a*(prev[x]-cur[x])
	}
}
