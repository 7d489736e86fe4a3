package core

import "math"

// resizeRatio computes df = max(1, pow2_floor(min(sigma_s/4, 256*sigma_r))),
// the power-of-two downsample factor from spec §4.1.
func resizeRatio(sigmaS, sigmaR float64) float64 {
	r := math.Min(sigmaS/4.0, 256.0*sigmaR)
	df := floorToPowerOfTwo(r)
	return math.Max(1.0, df)
}

func floorToPowerOfTwo(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Pow(2.0, math.Floor(math.Log2(r)))
}

// smallDimension scales a full-resolution dimension to the working
// (downsampled) grid by dividing by the resize ratio df and rounding to
// the nearest integer (halves round away from zero).
func smallDimension(full int, df float64) int {
	return int(math.Round(float64(full) / df))
}

// resolveTreeHeight implements spec §4.1's tree_height heuristic,
// clamped to a minimum of 2 per §9's second Open Question:
// max(2, ceil((floor(log2(sigma_s)) - 1) * (1 - sigma_r))).
func resolveTreeHeight(configured int, sigmaS, sigmaR float64) int {
	if configured > 0 {
		return configured
	}
	hs := math.Floor(math.Log2(sigmaS)) - 1.0
	lr := 1.0 - sigmaR
	height := int(math.Ceil(hs * lr))
	if height < 2 {
		height = 2
	}
	return height
}
