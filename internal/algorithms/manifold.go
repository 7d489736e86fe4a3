// Adaptive manifold filter algorithm, registered alongside the plain
// gocv Gaussian comparison filter in this file's sibling filters.go.
package algorithms

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/core"
)

// AdaptiveManifoldAlgorithm adapts core.AMFilter to the Algorithm
// interface so it can be driven through the same registry, Apply, and
// parameter-introspection contract as the plain gocv Gaussian filter.
type AdaptiveManifoldAlgorithm struct{}

// NewAdaptiveManifoldAlgorithm creates a new adaptive manifold filter algorithm.
func NewAdaptiveManifoldAlgorithm() *AdaptiveManifoldAlgorithm {
	return &AdaptiveManifoldAlgorithm{}
}

func (a *AdaptiveManifoldAlgorithm) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	if err := a.Validate(params); err != nil {
		return gocv.NewMat(), err
	}

	defaults := a.GetDefaultParams()
	sigmaS := floatParam(params, defaults, "sigma_s")
	sigmaR := floatParam(params, defaults, "sigma_r")
	adjustOutliers := boolParam(params, defaults, "adjust_outliers")

	f, err := core.NewAMFilter(sigmaS, sigmaR, adjustOutliers)
	if err != nil {
		return gocv.NewMat(), err
	}

	if v, ok := params["tree_height"]; ok {
		if fv, ok := v.(float64); ok {
			if err := f.Set("tree_height", int(fv)); err != nil {
				return gocv.NewMat(), err
			}
		}
	}
	if v, ok := params["num_pca_iterations"]; ok {
		if fv, ok := v.(float64); ok {
			if err := f.Set("num_pca_iterations", int(fv)); err != nil {
				return gocv.NewMat(), err
			}
		}
	}
	if v, ok := params["use_rng"]; ok {
		if bv, ok := v.(bool); ok {
			if err := f.Set("use_rng", bv); err != nil {
				return gocv.NewMat(), err
			}
		}
	}

	return f.Apply(context.Background(), input, gocv.NewMat())
}

func (a *AdaptiveManifoldAlgorithm) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"sigma_s":            16.0,
		"sigma_r":            0.2,
		"tree_height":        -1.0,
		"num_pca_iterations": 1.0,
		"adjust_outliers":    false,
		"use_rng":            true,
	}
}

func (a *AdaptiveManifoldAlgorithm) GetName() string {
	return "Adaptive Manifold Filter"
}

func (a *AdaptiveManifoldAlgorithm) GetDescription() string {
	return "Edge-aware smoothing via a recursive tree of locally linear manifolds fit to the guide image"
}

func (a *AdaptiveManifoldAlgorithm) Validate(params map[string]interface{}) error {
	if val, ok := params["sigma_s"]; ok {
		if v, ok := val.(float64); ok {
			if v < 1.0 {
				return fmt.Errorf("sigma_s must be >= 1")
			}
		}
	}

	if val, ok := params["sigma_r"]; ok {
		if v, ok := val.(float64); ok {
			if v <= 0.0 || v > 1.0 {
				return fmt.Errorf("sigma_r must be in (0, 1]")
			}
		}
	}

	return nil
}

func (a *AdaptiveManifoldAlgorithm) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "sigma_s",
			Type:        "float",
			Min:         1.0,
			Max:         200.0,
			Default:     16.0,
			Description: "Spatial standard deviation",
		},
		{
			Name:        "sigma_r",
			Type:        "float",
			Min:         0.01,
			Max:         1.0,
			Default:     0.2,
			Description: "Range standard deviation in normalized intensity",
		},
		{
			Name:        "tree_height",
			Type:        "int",
			Min:         -1.0,
			Max:         16.0,
			Default:     -1.0,
			Description: "Manifold tree height, -1 to compute automatically",
		},
		{
			Name:        "num_pca_iterations",
			Type:        "int",
			Min:         1.0,
			Max:         20.0,
			Default:     1.0,
			Description: "Power-iteration count for the dominant eigenvector",
		},
		{
			Name:        "adjust_outliers",
			Type:        "bool",
			Default:     false,
			Description: "Enable outlier-reducing reconstruction",
		},
		{
			Name:        "use_rng",
			Type:        "bool",
			Default:     true,
			Description: "Randomize the power-iteration seed instead of using a fixed alternation",
		},
	}
}

func floatParam(params, defaults map[string]interface{}, name string) float64 {
	if v, ok := params[name]; ok {
		if fv, ok := v.(float64); ok {
			return fv
		}
	}
	return defaults[name].(float64)
}

func boolParam(params, defaults map[string]interface{}, name string) bool {
	if v, ok := params[name]; ok {
		if bv, ok := v.(bool); ok {
			return bv
		}
	}
	return defaults[name].(bool)
}
