package core

import (
	"math"

	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/gocvutil"
)

// computeWK evaluates the per-pixel manifold weight w_k from a
// full-resolution eta and the joint image, updating the outlier
// tracking buffer along the way when adjustOutliers is set (spec §4.2,
// compute_w_k).
func computeWK(etaFull, jointCn []gocv.Mat, sigma float32, curTreeLevel int, minDist2 gocv.Mat, adjustOutliers bool) gocv.Mat {
	h := jointCn[0].Rows()
	w := jointCn[0].Cols()
	dst := gocvutil.NewPlane(w, h)
	argConst := -0.5 / (sigma * sigma)

	for y := 0; y < h; y++ {
		dstRow := gocvutil.Row(dst, y)
		for cn := range jointCn {
			er := gocvutil.Row(etaFull[cn], y)
			jr := gocvutil.Row(jointCn[cn], y)
			if cn == 0 {
				for x := 0; x < w; x++ {
					d := er[x] - jr[x]
					dstRow[x] = d * d
				}
			} else {
				for x := 0; x < w; x++ {
					d := er[x] - jr[x]
					dstRow[x] += d * d
				}
			}
		}

		if adjustOutliers {
			mr := gocvutil.Row(minDist2, y)
			if curTreeLevel != 1 {
				for x := 0; x < w; x++ {
					if dstRow[x] < mr[x] {
						mr[x] = dstRow[x]
					}
				}
			} else {
				copy(mr, dstRow)
			}
		}

		for x := 0; x < w; x++ {
			dstRow[x] = float32(math.Exp(float64(dstRow[x] * argConst)))
		}
	}

	return dst
}
