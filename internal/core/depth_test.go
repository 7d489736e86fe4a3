package core

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestDepthOfMatchesKnownTypes(t *testing.T) {
	cases := []struct {
		t    gocv.MatType
		want int
	}{
		{gocv.MatTypeCV8U, depthCV8U},
		{gocv.MatTypeCV8UC3, depthCV8U},
		{gocv.MatTypeCV16U, depthCV16U},
		{gocv.MatTypeCV32F, depthCV32F},
		{gocv.MatTypeCV32FC3, depthCV32F},
	}
	for _, c := range cases {
		if got := depthOf(c.t); got != c.want {
			t.Fatalf("depthOf(%v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestIsSupportedDepthAcceptsOnly8U16U32F(t *testing.T) {
	for _, d := range []int{depthCV8U, depthCV16U, depthCV32F} {
		if !isSupportedDepth(d) {
			t.Fatalf("depth %d should be supported", d)
		}
	}
	if isSupportedDepth(1) { // CV_8S
		t.Fatalf("signed 8-bit depth should not be supported")
	}
}

func TestNormalizerForMapsIntegerDepthsToUnitRange(t *testing.T) {
	if got := normalizerFor(depthCV8U); got != 1.0/255.0 {
		t.Fatalf("normalizerFor(8U) = %v, want 1/255", got)
	}
	if got := normalizerFor(depthCV16U); got != 1.0/65535.0 {
		t.Fatalf("normalizerFor(16U) = %v, want 1/65535", got)
	}
	if got := normalizerFor(depthCV32F); got != 1.0 {
		t.Fatalf("normalizerFor(32F) = %v, want 1 (already normalized)", got)
	}
}
