package core

import (
	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/dtransform"
	"adaptive-manifold-filter/internal/gocvutil"
)

// buildManifoldsAndFilter is the recursive manifold tree driver (spec
// §4.1's "recursive binary tree" and §4.7's splat/blur/slice
// pipeline). It takes ownership of eta and cluster: both are closed
// before the function returns, whichever branch is taken.
func (r *run) buildManifoldsAndFilter(eta []gocv.Mat, cluster gocv.Mat, treeLevel int) error {
	if err := r.ctx.Err(); err != nil {
		gocvutil.CloseAll(eta)
		cluster.Close()
		return err
	}

	etaIsFullRes := eta[0].Rows() == r.height && eta[0].Cols() == r.width

	var etaFull, etaSmall []gocv.Mat
	var wk gocv.Mat

	if etaIsFullRes {
		etaFull = eta
		wk = computeWK(etaFull, r.jointCn, r.sigmaROverSqrt2, treeLevel, r.minDist2, r.cfg.AdjustOutliers)
		etaSmall = make([]gocv.Mat, len(eta))
		for i, e := range eta {
			etaSmall[i] = gocvutil.Resize(e, r.smallWidth, r.smallHeight)
		}
	} else {
		etaSmall = eta
		etaFull = make([]gocv.Mat, len(eta))
		for i, e := range eta {
			etaFull[i] = gocvutil.Resize(e, r.width, r.height)
		}
		wk = computeWK(etaFull, r.jointCn, r.sigmaROverSqrt2, treeLevel, r.minDist2, r.cfg.AdjustOutliers)
	}

	r.splatBlurSlice(wk, etaSmall)

	if treeLevel < r.curTreeHeight {
		clusterMinus, clusterPlus := computeClusters(r.jointCn, etaFull, cluster, r.cfg.NumPCAIterations, r.cfg.UseRNG, r.uniform)

		teta := gocvutil.NewPlane(r.width, r.height)
		ones := gocvutil.NewPlane(r.width, r.height)
		ones.SetTo(gocv.NewScalar(1, 0, 0, 0))
		gocv.Subtract(ones, wk, &teta)
		ones.Close()

		etaMinus := computeEta(teta, clusterMinus, r.jointCn, r.sigmaSSmall, r.smallWidth, r.smallHeight)
		etaPlus := computeEta(teta, clusterPlus, r.jointCn, r.sigmaSSmall, r.smallWidth, r.smallHeight)
		teta.Close()

		gocvutil.CloseAll(etaFull)
		gocvutil.CloseAll(etaSmall)
		cluster.Close()
		wk.Close()

		if err := r.buildManifoldsAndFilter(etaMinus, clusterMinus, treeLevel+1); err != nil {
			gocvutil.CloseAll(etaPlus)
			clusterPlus.Close()
			return err
		}
		return r.buildManifoldsAndFilter(etaPlus, clusterPlus, treeLevel+1)
	}

	gocvutil.CloseAll(etaFull)
	gocvutil.CloseAll(etaSmall)
	cluster.Close()
	wk.Close()
	return nil
}

// splatBlurSlice performs the splat -> DT-RF blur -> slice stage
// shared by every manifold tree node (spec §4.7).
func (r *run) splatBlurSlice(wk gocv.Mat, etaSmall []gocv.Mat) {
	psiSmall := make([]gocv.Mat, r.srcCnNum)
	for si := range psiSmall {
		tmp := gocvutil.NewPlane(r.width, r.height)
		gocv.Multiply(r.srcCn[si], wk, &tmp)
		psiSmall[si] = gocvutil.Resize(tmp, r.smallWidth, r.smallHeight)
		tmp.Close()
	}
	psi0Small := gocvutil.Resize(wk, r.smallWidth, r.smallHeight)

	edges := dtransform.ComputeEdgeWeights(etaSmall, r.sigmaSSmall, r.sigmaROverSqrt2)
	filt := dtransform.New(edges.H, edges.V, r.sigmaSSmall, r.sigmaROverSqrt2, r.cfg.DTIterations)

	for si := range psiSmall {
		blurred := filt.Filter(psiSmall[si])
		psiSmall[si].Close()

		up := gocvutil.Resize(blurred, r.width, r.height)
		blurred.Close()
		gocv.Multiply(up, wk, &up)
		gocv.Add(r.sumWkPsi[si], up, &r.sumWkPsi[si])
		up.Close()
	}

	blurred0 := filt.Filter(psi0Small)
	psi0Small.Close()
	up0 := gocvutil.Resize(blurred0, r.width, r.height)
	blurred0.Close()
	gocv.Multiply(up0, wk, &up0)
	gocv.Add(r.sumWk, up0, &r.sumWk)
	up0.Close()

	edges.Close()
}
