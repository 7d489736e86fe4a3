package core

import (
	"context"

	"gocv.io/x/gocv"
)

// AMFilterOneShot filters src against joint at the given
// sigma_s/sigma_r without requiring the caller to construct and hold
// an *AMFilter, mirroring the original library's free-function
// amFilter() convenience wrapper around the parameterized algorithm
// object.
func AMFilterOneShot(ctx context.Context, joint, src gocv.Mat, sigmaS, sigmaR float64, adjustOutliers bool) (gocv.Mat, error) {
	f, err := NewAMFilter(sigmaS, sigmaR, adjustOutliers)
	if err != nil {
		return gocv.NewMat(), err
	}
	return f.Apply(ctx, src, joint)
}
