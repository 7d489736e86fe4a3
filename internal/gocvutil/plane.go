// Package gocvutil holds small helpers shared by the manifold filter
// packages for working with single-channel float32 gocv.Mat planes.
package gocvutil

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// NewPlane allocates a zeroed single-channel 32-bit float plane.
func NewPlane(width, height int) gocv.Mat {
	return gocv.NewMatWithSize(height, width, gocv.MatTypeCV32F)
}

// NewMaskAll allocates a single-channel byte mask, every pixel set to
// value (0xFF for "all members", 0x00 for "empty").
func NewMaskAll(width, height int, value uint8) gocv.Mat {
	m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8U)
	scalar := gocv.NewScalar(float64(value), 0, 0, 0)
	m.SetTo(scalar)
	return m
}

// Row returns the y-th row of a single-channel float32 plane as a
// slice sharing the Mat's backing storage. Panics if the Mat is not
// CV_32FC1; callers own the resulting slice only as long as m is alive.
func Row(m gocv.Mat, y int) []float32 {
	data, err := m.DataPtrFloat32()
	if err != nil {
		panic(fmt.Sprintf("gocvutil.Row: %v", err))
	}
	stride := int(m.Step()) / 4
	start := y * stride
	return data[start : start+m.Cols()]
}

// ByteRow returns the y-th row of a single-channel byte plane (e.g. a
// cluster mask) as a slice sharing the Mat's backing storage.
func ByteRow(m gocv.Mat, y int) []byte {
	data, err := m.DataPtrUint8()
	if err != nil {
		panic(fmt.Sprintf("gocvutil.ByteRow: %v", err))
	}
	stride := int(m.Step())
	start := y * stride
	return data[start : start+m.Cols()]
}

// CloneAll clones a slice of planes, e.g. for taking a full-resolution
// snapshot of eta before it is downsampled in place.
func CloneAll(planes []gocv.Mat) []gocv.Mat {
	out := make([]gocv.Mat, len(planes))
	for i, p := range planes {
		out[i] = p.Clone()
	}
	return out
}

// CloseAll releases every plane in the slice, ignoring already-empty Mats.
func CloseAll(planes []gocv.Mat) {
	for _, p := range planes {
		if !p.Empty() {
			p.Close()
		}
	}
}

// Resize resizes src into a new plane of the given size using bilinear
// interpolation, matching the AMF driver's exclusive use of INTER_LINEAR
// for both down- and up-sampling.
func Resize(src gocv.Mat, width, height int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	return dst
}
