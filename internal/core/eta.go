package core

import (
	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/gocvutil"
	"adaptive-manifold-filter/internal/hfilter"
)

// computeEta builds a child manifold's guide estimate: teta masked to
// cluster's support, downsampled, and low-pass filtered, then the same
// treatment applied to teta*joint before dividing out the mask's own
// blurred weight (spec §4.6, computeEta). The result lives on the
// downsampled grid.
func computeEta(teta, cluster gocv.Mat, jointCn []gocv.Mat, sigmaSSmall float32, smallWidth, smallHeight int) []gocv.Mat {
	w := teta.Cols()
	h := teta.Rows()

	tetaMasked := gocvutil.NewPlane(w, h)
	tetaMasked.SetTo(gocv.NewScalar(0, 0, 0, 0))
	teta.CopyToWithMask(&tetaMasked, cluster)
	defer tetaMasked.Close()

	tetaMaskedSmall := gocvutil.Resize(tetaMasked, smallWidth, smallHeight)
	tetaBlur := hfilter.Run(tetaMaskedSmall, sigmaSSmall)
	tetaMaskedSmall.Close()
	defer tetaBlur.Close()

	etaDst := make([]gocv.Mat, len(jointCn))
	for i := range jointCn {
		mul := gocvutil.NewPlane(w, h)
		gocv.Multiply(tetaMasked, jointCn[i], &mul)
		mulSmall := gocvutil.Resize(mul, smallWidth, smallHeight)
		mul.Close()

		blurred := hfilter.Run(mulSmall, sigmaSSmall)
		mulSmall.Close()

		safeDivide(blurred, tetaBlur)
		etaDst[i] = blurred
	}
	return etaDst
}

// divisionEpsilon is the denominator floor below which safeDivide
// substitutes 0 instead of dividing, so a manifold with no supporting
// pixels in a region never turns into a NaN or Inf guide value (spec
// §7: "Division underflow in eta normalization -> substitute 0").
const divisionEpsilon = 1e-12

// safeDivide overwrites num in place with num/den, substituting 0
// wherever den underflows.
func safeDivide(num, den gocv.Mat) {
	h := num.Rows()
	w := num.Cols()
	for y := 0; y < h; y++ {
		numRow := gocvutil.Row(num, y)
		denRow := gocvutil.Row(den, y)
		for x := 0; x < w; x++ {
			if denRow[x] < divisionEpsilon && denRow[x] > -divisionEpsilon {
				numRow[x] = 0
			} else {
				numRow[x] /= denRow[x]
			}
		}
	}
}
