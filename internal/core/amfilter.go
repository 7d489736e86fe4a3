// Package core implements the adaptive manifold filter: an edge-aware
// smoothing operator that reconstructs each pixel from a small set of
// locally linear "manifolds" fit to the guide image, rather than from
// a spatial neighborhood directly.
package core

import (
	"context"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/gocvutil"
	"adaptive-manifold-filter/internal/hfilter"
)

// AMFilter is a reusable, parameterized adaptive manifold filter. It
// holds no per-call buffers; every Apply call builds and tears down
// its own scratch state so a single *AMFilter is safe to reuse
// sequentially across images of different sizes.
type AMFilter struct {
	cfg    Config
	logger *slog.Logger
}

// NewAMFilter constructs a filter at the given spatial/range standard
// deviations, with every other parameter (tree_height,
// num_pca_iterations, use_rng, dt_iterations) at its default.
func NewAMFilter(sigmaS, sigmaR float64, adjustOutliers bool) (*AMFilter, error) {
	cfg := defaultConfig()
	cfg.SigmaS = sigmaS
	cfg.SigmaR = sigmaR
	cfg.AdjustOutliers = adjustOutliers
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &AMFilter{cfg: cfg, logger: slog.Default()}, nil
}

// NewDefaultAMFilter mirrors the original library's bare
// AdaptiveManifoldFilter::create() constructor: sigma_s=16, sigma_r=0.2,
// tree_height=-1, num_pca_iterations=1, adjust_outliers=false,
// use_RNG=true.
func NewDefaultAMFilter() *AMFilter {
	return &AMFilter{cfg: defaultConfig(), logger: slog.Default()}
}

// SetLogger overrides the filter's structured logger, mainly for
// cmd/amfilter to plumb through a request-scoped one.
func (f *AMFilter) SetLogger(logger *slog.Logger) {
	f.logger = logger
}

// Set assigns a named configuration field, using the same parameter
// names that internal/algorithms' ParameterInfo lists. Valid names are the lowercase, underscore-separated Config field names:
// sigma_s, sigma_r, tree_height, num_pca_iterations, adjust_outliers,
// use_rng, dt_iterations.
func (f *AMFilter) Set(name string, value interface{}) error {
	switch name {
	case "sigma_s":
		v, ok := toFloat64(value)
		if !ok {
			return errf(ErrInvalidConfig, "sigma_s must be numeric")
		}
		f.cfg.SigmaS = v
	case "sigma_r":
		v, ok := toFloat64(value)
		if !ok {
			return errf(ErrInvalidConfig, "sigma_r must be numeric")
		}
		f.cfg.SigmaR = v
	case "tree_height":
		v, ok := toInt(value)
		if !ok {
			return errf(ErrInvalidConfig, "tree_height must be an integer")
		}
		f.cfg.TreeHeight = v
	case "num_pca_iterations":
		v, ok := toInt(value)
		if !ok {
			return errf(ErrInvalidConfig, "num_pca_iterations must be an integer")
		}
		f.cfg.NumPCAIterations = v
	case "adjust_outliers":
		v, ok := value.(bool)
		if !ok {
			return errf(ErrInvalidConfig, "adjust_outliers must be a bool")
		}
		f.cfg.AdjustOutliers = v
	case "use_rng":
		v, ok := value.(bool)
		if !ok {
			return errf(ErrInvalidConfig, "use_rng must be a bool")
		}
		f.cfg.UseRNG = v
	case "dt_iterations":
		v, ok := toInt(value)
		if !ok {
			return errf(ErrInvalidConfig, "dt_iterations must be an integer")
		}
		f.cfg.DTIterations = v
	default:
		return errf(ErrInvalidConfig, "unknown parameter %q", name)
	}
	return f.cfg.validate()
}

// Apply filters src, using joint as the guide image (pass an empty
// gocv.Mat, or src itself, to filter src against its own values). The
// returned Mat is newly allocated and owned by the caller.
func (f *AMFilter) Apply(ctx context.Context, src, joint gocv.Mat) (gocv.Mat, error) {
	if err := f.cfg.validate(); err != nil {
		return gocv.NewMat(), err
	}

	r, err := newRun(ctx, f.logger, f.cfg, src, joint)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer r.collectGarbage()

	cluster0 := gocvutil.NewMaskAll(r.width, r.height, 0xFF)
	eta0 := make([]gocv.Mat, r.jointCnNum)
	for i := 0; i < r.jointCnNum; i++ {
		eta0[i] = hfilter.Run(r.jointCn[i], float32(f.cfg.SigmaS))
	}

	if err := r.buildManifoldsAndFilter(eta0, cluster0, 1); err != nil {
		return gocv.NewMat(), fmt.Errorf("adaptive manifold filter: %w", err)
	}

	dst, err := r.gatherResult()
	if err != nil {
		return gocv.NewMat(), err
	}

	if f.logger != nil {
		f.logger.Info("amf: filter applied",
			"width", r.width, "height", r.height,
			"tree_height", r.curTreeHeight,
			"sigma_s", f.cfg.SigmaS, "sigma_r", f.cfg.SigmaR,
			"adjust_outliers", f.cfg.AdjustOutliers)
	}

	return dst, nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
