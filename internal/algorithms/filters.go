// GaussianFilter is the registry's edge-naive comparison baseline: a
// plain spatial low-pass with no awareness of the guide image, run
// through the same Algorithm/Apply/Validate contract as
// AdaptiveManifoldAlgorithm so registry_test.go can measure how much
// sharper the manifold filter holds a step edge at a comparable
// spatial scale (see TestAdaptiveManifoldHoldsEdgeSharperThanGaussianBaseline).
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// GaussianFilter implements Gaussian blur filter
type GaussianFilter struct{}

// NewGaussianFilter creates a new Gaussian filter algorithm
func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	// Get parameters
	kernelSize := 5
	if val, ok := params["kernel_size"]; ok {
		if v, ok := val.(float64); ok {
			kernelSize = int(v)
		}
	}

	sigmaX := 1.0
	if val, ok := params["sigma_x"]; ok {
		if v, ok := val.(float64); ok {
			sigmaX = v
		}
	}

	sigmaY := 1.0
	if val, ok := params["sigma_y"]; ok {
		if v, ok := val.(float64); ok {
			sigmaY = v
		}
	}

	// Ensure kernel size is odd
	if kernelSize%2 == 0 {
		kernelSize++
	}

	// Apply Gaussian blur
	output := gocv.NewMat()
	gocv.GaussianBlur(input, &output, gocv.NewPoint(kernelSize, kernelSize), sigmaX, sigmaY, gocv.BorderDefault)

	return output, nil
}

func (g *GaussianFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel_size": 5.0,
		"sigma_x":     1.0,
		"sigma_y":     1.0,
	}
}

func (g *GaussianFilter) GetName() string {
	return "Gaussian Filter"
}

func (g *GaussianFilter) GetDescription() string {
	return "Edge-naive Gaussian blur, kept only as a comparison baseline for the manifold filter"
}

func (g *GaussianFilter) Validate(params map[string]interface{}) error {
	if val, ok := params["kernel_size"]; ok {
		if v, ok := val.(float64); ok {
			if v < 3 || v > 21 {
				return fmt.Errorf("kernel_size must be between 3 and 21")
			}
		}
	}

	if val, ok := params["sigma_x"]; ok {
		if v, ok := val.(float64); ok {
			if v < 0.1 || v > 10.0 {
				return fmt.Errorf("sigma_x must be between 0.1 and 10.0")
			}
		}
	}

	if val, ok := params["sigma_y"]; ok {
		if v, ok := val.(float64); ok {
			if v < 0.1 || v > 10.0 {
				return fmt.Errorf("sigma_y must be between 0.1 and 10.0")
			}
		}
	}

	return nil
}

func (g *GaussianFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "kernel_size",
			Type:        "int",
			Min:         3.0,
			Max:         21.0,
			Default:     5.0,
			Description: "Size of the Gaussian kernel (must be odd)",
		},
		{
			Name:        "sigma_x",
			Type:        "float",
			Min:         0.1,
			Max:         10.0,
			Default:     1.0,
			Description: "Standard deviation in X direction",
		},
		{
			Name:        "sigma_y",
			Type:        "float",
			Min:         0.1,
			Max:         10.0,
			Default:     1.0,
			Description: "Standard deviation in Y direction",
		},
	}
}
