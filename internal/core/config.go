package core

// Config holds every parameter enumerated in spec §4.1. Zero-value
// Config is not valid on its own — construct one via NewAMFilter,
// NewDefaultAMFilter, or Set individual fields on an existing filter.
type Config struct {
	// SigmaS is the spatial standard deviation, must be >= 1.
	SigmaS float64
	// SigmaR is the range standard deviation in normalized intensity,
	// must be in (0, 1].
	SigmaR float64
	// TreeHeight is the manifold tree height. <= 0 means "compute the
	// heuristic height from sigma_s and sigma_r" (resolveTreeHeight).
	TreeHeight int
	// NumPCAIterations is the power-iteration count for the dominant
	// eigenvector; validate raises values below 1 to 1.
	NumPCAIterations int
	// AdjustOutliers enables the outlier-reducing reconstruction in
	// gatherResult.
	AdjustOutliers bool
	// UseRNG selects random vs. deterministic power-iteration
	// initialization.
	UseRNG bool
	// DTIterations is K, the domain-transform recursive filter's
	// iteration count. Defaults to 1 for parity with the source
	// algorithm (spec §9, first Open Question).
	DTIterations int
}

// defaultConfig mirrors AdaptiveManifoldFilterN's C++ constructor
// defaults (sigma_s=16, sigma_r=0.2, tree_height=-1 i.e. "compute it",
// num_pca_iterations=1, adjust_outliers=false, use_RNG=true) plus
// DTIterations=1.
func defaultConfig() Config {
	return Config{
		SigmaS:           16.0,
		SigmaR:           0.2,
		TreeHeight:       -1,
		NumPCAIterations: 1,
		AdjustOutliers:   false,
		UseRNG:           true,
		DTIterations:     1,
	}
}

func (c *Config) validate() error {
	if c.SigmaS < 1 {
		return errf(ErrInvalidConfig, "sigma_s must be >= 1, got %v", c.SigmaS)
	}
	if c.SigmaR <= 0 || c.SigmaR > 1 {
		return errf(ErrInvalidConfig, "sigma_r must be in (0, 1], got %v", c.SigmaR)
	}
	if c.NumPCAIterations < 1 {
		c.NumPCAIterations = 1
	}
	if c.DTIterations < 1 {
		c.DTIterations = 1
	}
	return nil
}
