package core

import (
	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/gocvutil"
)

// gatherResult reconstructs the filtered image from the accumulated
// splat/blur/slice sums, applying the outlier correction of spec §4.8
// (Eq. 9) when enabled.
func (r *run) gatherResult() (gocv.Mat, error) {
	dstCn := make([]gocv.Mat, r.srcCnNum)
	defer gocvutil.CloseAll(dstCn)

	if !r.cfg.AdjustOutliers {
		for i := 0; i < r.srcCnNum; i++ {
			g := gocvutil.NewPlane(r.width, r.height)
			gocv.Divide(r.sumWkPsi[i], r.sumWk, &g)
			dstCn[i] = g
		}
	} else {
		alpha := gocvutil.NewPlane(r.width, r.height)
		defer alpha.Close()
		sigmaMember := float32(-0.5 / (r.cfg.SigmaR * r.cfg.SigmaR))
		coef := scalarPlane(r.width, r.height, sigmaMember)
		gocv.Multiply(r.minDist2, coef, &alpha)
		coef.Close()
		gocv.Exp(alpha, &alpha)

		for i := 0; i < r.srcCnNum; i++ {
			g := gocvutil.NewPlane(r.width, r.height)
			gocv.Divide(r.sumWkPsi[i], r.sumWk, &g)
			gocv.Subtract(g, r.srcCn[i], &g)
			gocv.Multiply(alpha, g, &g)
			gocv.Add(g, r.srcCn[i], &g)
			dstCn[i] = g
		}
	}

	converted := make([]gocv.Mat, r.srcCnNum)
	for i, g := range dstCn {
		c := gocv.NewMat()
		g.ConvertTo(&c, r.outputType)
		converted[i] = c
	}
	defer gocvutil.CloseAll(converted)

	dst := gocv.NewMat()
	gocv.Merge(converted, &dst)
	return dst, nil
}

func scalarPlane(width, height int, value float32) gocv.Mat {
	m := gocvutil.NewPlane(width, height)
	m.SetTo(gocv.NewScalar(float64(value), 0, 0, 0))
	return m
}
