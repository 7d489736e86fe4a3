package core

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"

	"adaptive-manifold-filter/internal/eigen"
	"adaptive-manifold-filter/internal/gocvutil"
)

// computeClusters splits cluster into two children by the sign of each
// masked pixel's projection onto the dominant eigenvector of
// (jointCn - etaFull), the manifold's local orientation (spec §4.5,
// computeClusters).
func computeClusters(jointCn, etaFull []gocv.Mat, cluster gocv.Mat, iterations int, useRNG bool, uniform func() float64) (clusterMinus, clusterPlus gocv.Mat) {
	c := len(jointCn)
	h := jointCn[0].Rows()
	w := jointCn[0].Cols()

	residual := make([]gocv.Mat, c)
	for i := range residual {
		d := gocvutil.NewPlane(w, h)
		gocv.Subtract(jointCn[i], etaFull[i], &d)
		residual[i] = d
	}
	defer gocvutil.CloseAll(residual)

	init := eigen.InitVector(c, useRNG, uniform)
	v := eigen.Compute(residual, cluster, iterations, init)

	clusterMinus = gocvutil.NewMaskAll(w, h, 0)
	clusterPlus = gocvutil.NewMaskAll(w, h, 0)

	pixel := make([]float64, c)
	rows := make([][]float32, c)
	for y := 0; y < h; y++ {
		maskRow := gocvutil.ByteRow(cluster, y)
		minusRow := gocvutil.ByteRow(clusterMinus, y)
		plusRow := gocvutil.ByteRow(clusterPlus, y)
		for cn := range residual {
			rows[cn] = gocvutil.Row(residual[cn], y)
		}
		for x := 0; x < w; x++ {
			if maskRow[x] == 0 {
				continue
			}
			for cn := range residual {
				pixel[cn] = float64(rows[cn][x])
			}
			if floats.Dot(pixel, v) < 0 {
				minusRow[x] = 0xFF
			} else {
				plusRow[x] = 0xFF
			}
		}
	}
	return clusterMinus, clusterPlus
}
