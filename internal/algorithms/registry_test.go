package algorithms

import (
	"testing"

	"gocv.io/x/gocv"
)

func stepEdge(t *testing.T, n int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(n, n, gocv.MatTypeCV8U)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x < n/2 {
				m.SetUCharAt(y, x, 0)
			} else {
				m.SetUCharAt(y, x, 255)
			}
		}
	}
	return m
}

func TestIsValidAlgorithmCoversRegisteredNames(t *testing.T) {
	for _, name := range []string{"gaussian", "adaptive_manifold"} {
		if !IsValidAlgorithm(name) {
			t.Fatalf("%q should be registered", name)
		}
	}
	if IsValidAlgorithm("unknown_algorithm") {
		t.Fatalf("unknown_algorithm should not be registered")
	}
}

func TestGetAllAlgorithmsReturnsEveryCategoryMember(t *testing.T) {
	all := GetAllAlgorithms()
	categories := GetAlgorithmsByCategory()
	for _, names := range categories {
		for _, name := range names {
			if _, ok := all[name]; !ok {
				t.Fatalf("category lists %q but GetAllAlgorithms does not know it", name)
			}
		}
	}
}

func TestValidateParametersRejectsOutOfRangeSigmaR(t *testing.T) {
	params := map[string]interface{}{"sigma_r": 1.5}
	if err := ValidateParameters("adaptive_manifold", params); err == nil {
		t.Fatalf("sigma_r=1.5 should fail validation")
	}
}

func TestValidateParametersRejectsUnknownAlgorithm(t *testing.T) {
	if err := ValidateParameters("does_not_exist", nil); err == nil {
		t.Fatalf("expected an error for an unregistered algorithm name")
	}
}

// adaptive_manifold, driven through the registry with a small sigma_r,
// should hold a step edge sharper than the registry's Gaussian baseline
// at a comparable spatial scale: the edge-aware/edge-naive comparison
// this registry exists to make possible.
func TestAdaptiveManifoldHoldsEdgeSharperThanGaussianBaseline(t *testing.T) {
	src := stepEdge(t, 32)
	defer src.Close()

	gaussianOut, err := Apply("gaussian", src, map[string]interface{}{
		"kernel_size": 9.0,
		"sigma_x":     4.0,
		"sigma_y":     4.0,
	})
	if err != nil {
		t.Fatalf("Apply gaussian: %v", err)
	}
	defer gaussianOut.Close()

	manifoldOut, err := Apply("adaptive_manifold", src, map[string]interface{}{
		"sigma_s": 8.0,
		"sigma_r": 0.1,
	})
	if err != nil {
		t.Fatalf("Apply adaptive_manifold: %v", err)
	}
	defer manifoldOut.Close()

	row := 16
	gaussianSpread := int(gaussianOut.GetUCharAt(row, 17)) - int(gaussianOut.GetUCharAt(row, 14))
	manifoldSpread := int(manifoldOut.GetUCharAt(row, 17)) - int(manifoldOut.GetUCharAt(row, 14))

	if manifoldSpread <= gaussianSpread {
		t.Fatalf("adaptive_manifold spread %d should exceed the edge-naive gaussian spread %d across the same three columns",
			manifoldSpread, gaussianSpread)
	}
}
