package core

import "gocv.io/x/gocv"

// OpenCV (and therefore gocv) encodes a Mat's pixel depth in the low 3
// bits of its type constant, independent of channel count.
const (
	depthCV8U  = 0
	depthCV16U = 2
	depthCV32F = 5
)

func depthOf(t gocv.MatType) int {
	return int(t) & 7
}

func isSupportedDepth(depth int) bool {
	return depth == depthCV8U || depth == depthCV16U || depth == depthCV32F
}

// normalizerFor returns the scale factor that maps an integer depth's
// full range to [0, 1]; float depths are assumed already scaled by the
// caller and get a no-op normalizer of 1.
func normalizerFor(depth int) float32 {
	switch depth {
	case depthCV8U:
		return 1.0 / 0xFF
	case depthCV16U:
		return 1.0 / 0xFFFF
	default:
		return 1.0
	}
}
