package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds enumerated in spec §7, so
// callers can errors.Is against them.
var (
	ErrInvalidConfig    = errors.New("adaptive manifold filter: invalid configuration")
	ErrShapeMismatch    = errors.New("adaptive manifold filter: src/joint shape mismatch")
	ErrUnsupportedDepth = errors.New("adaptive manifold filter: unsupported image depth or channel count")
	ErrAllocation       = errors.New("adaptive manifold filter: buffer allocation failed")
)

func errf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
