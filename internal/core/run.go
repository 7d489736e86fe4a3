package core

import (
	"context"
	"log/slog"
	"math"

	"gocv.io/x/gocv"

	"adaptive-manifold-filter/internal/gocvutil"
)

// run holds every buffer and derived scalar for a single Apply call.
// It is intentionally separate from AMFilter's persistent Config so
// that concurrent calls to Apply on the same *AMFilter never share
// mutable state (spec §5: "all accumulators and scratch buffers are
// owned exclusively by the active filter call").
type run struct {
	ctx    context.Context
	logger *slog.Logger
	cfg    Config

	width, height           int
	smallWidth, smallHeight int
	df                      float64
	sigmaSSmall             float32
	sigmaROverSqrt2         float32
	curTreeHeight           int

	outputType gocv.MatType

	srcCnNum, jointCnNum int
	srcCn                []gocv.Mat
	jointCn              []gocv.Mat
	jointAliasesSrc      bool

	sumWkPsi []gocv.Mat
	sumWk    gocv.Mat
	minDist2 gocv.Mat

	uniform func() float64
}

func newRun(ctx context.Context, logger *slog.Logger, cfg Config, src, joint gocv.Mat) (*run, error) {
	if src.Empty() {
		return nil, errf(ErrInvalidConfig, "src image is empty")
	}

	r := &run{
		ctx:        ctx,
		logger:     logger,
		cfg:        cfg,
		width:      src.Cols(),
		height:     src.Rows(),
		outputType: src.Type(),
	}

	if err := r.initSrcAndJoint(src, joint); err != nil {
		return nil, err
	}

	r.df = resizeRatio(cfg.SigmaS, cfg.SigmaR)
	r.smallWidth = smallDimension(r.width, r.df)
	r.smallHeight = smallDimension(r.height, r.df)
	r.sigmaSSmall = float32(cfg.SigmaS / r.df)
	r.sigmaROverSqrt2 = float32(cfg.SigmaR / math.Sqrt2)
	r.curTreeHeight = resolveTreeHeight(cfg.TreeHeight, cfg.SigmaS, cfg.SigmaR)

	if err := r.initBuffers(); err != nil {
		r.collectGarbage()
		return nil, err
	}

	seed := seedFromGuide(r.jointCn[0])
	r.uniform = newUniformSource(seed)

	if logger != nil {
		logger.Debug("amf: buffers initialized",
			"width", r.width, "height", r.height,
			"small_width", r.smallWidth, "small_height", r.smallHeight,
			"df", r.df, "tree_height", r.curTreeHeight,
			"src_channels", r.srcCnNum, "joint_channels", r.jointCnNum)
	}

	return r, nil
}

// initSrcAndJoint splits src into float32 planes kept in their native
// numeric range (spec: "src_channels ... normalized to float; never
// mutated") and builds the joint (guide) planes normalized to [0, 1]
// when their source depth is integer (spec §3, joint_channels row).
func (r *run) initSrcAndJoint(src, joint gocv.Mat) error {
	srcDepth := depthOf(src.Type())
	if !isSupportedDepth(srcDepth) {
		return errf(ErrUnsupportedDepth, "unsupported src depth")
	}

	r.srcCnNum = src.Channels()
	rawSrc := gocv.Split(src)
	r.srcCn = make([]gocv.Mat, r.srcCnNum)
	for i, p := range rawSrc {
		if srcDepth == depthCV32F {
			r.srcCn[i] = p
			continue
		}
		f := gocvutil.NewPlane(r.width, r.height)
		p.ConvertTo(&f, gocv.MatTypeCV32F)
		r.srcCn[i] = f
		p.Close()
	}

	useSrcAsJoint := joint.Empty() || joint.Ptr() == src.Ptr()
	if useSrcAsJoint {
		r.jointCnNum = r.srcCnNum
		r.jointAliasesSrc = true
		if srcDepth == depthCV32F {
			r.jointCn = r.srcCn
			return nil
		}
		r.jointAliasesSrc = false
		norm := normalizerFor(srcDepth)
		r.jointCn = make([]gocv.Mat, r.srcCnNum)
		for i := range r.srcCn {
			f := gocvutil.NewPlane(r.width, r.height)
			r.srcCn[i].ConvertToWithParams(&f, gocv.MatTypeCV32F, norm, 0)
			r.jointCn[i] = f
		}
		return nil
	}

	if joint.Cols() != r.width || joint.Rows() != r.height {
		return errf(ErrShapeMismatch, "joint size %dx%d does not match src size %dx%d",
			joint.Cols(), joint.Rows(), r.width, r.height)
	}
	jointDepth := depthOf(joint.Type())
	if !isSupportedDepth(jointDepth) {
		return errf(ErrUnsupportedDepth, "unsupported joint depth")
	}

	rawJoint := gocv.Split(joint)
	r.jointCnNum = len(rawJoint)
	r.jointCn = make([]gocv.Mat, r.jointCnNum)
	norm := normalizerFor(jointDepth)
	for i, p := range rawJoint {
		if jointDepth == depthCV32F {
			r.jointCn[i] = p
			continue
		}
		f := gocvutil.NewPlane(r.width, r.height)
		p.ConvertToWithParams(&f, gocv.MatTypeCV32F, norm, 0)
		r.jointCn[i] = f
		p.Close()
	}
	return nil
}

// initBuffers allocates the accumulators every manifold tree node adds
// into. gocv/OpenCV surfaces a failed allocation as an empty Mat rather
// than a Go error, so each plane is checked immediately after
// allocation and reported as ErrAllocation.
func (r *run) initBuffers() error {
	r.sumWkPsi = make([]gocv.Mat, 0, r.srcCnNum)
	zero := gocv.NewScalar(0, 0, 0, 0)
	for i := 0; i < r.srcCnNum; i++ {
		m := gocvutil.NewPlane(r.width, r.height)
		if m.Empty() {
			return errf(ErrAllocation, "failed to allocate sum_wk_psi[%d] (%dx%d)", i, r.width, r.height)
		}
		m.SetTo(zero)
		r.sumWkPsi = append(r.sumWkPsi, m)
	}

	r.sumWk = gocvutil.NewPlane(r.width, r.height)
	if r.sumWk.Empty() {
		return errf(ErrAllocation, "failed to allocate sum_wk (%dx%d)", r.width, r.height)
	}
	r.sumWk.SetTo(zero)

	if r.cfg.AdjustOutliers {
		r.minDist2 = gocvutil.NewPlane(r.width, r.height)
		if r.minDist2.Empty() {
			return errf(ErrAllocation, "failed to allocate min_dist2 (%dx%d)", r.width, r.height)
		}
	}
	return nil
}

// collectGarbage releases every buffer owned by this run, mirroring
// AdaptiveManifoldFilterN::collectGarbage.
func (r *run) collectGarbage() {
	gocvutil.CloseAll(r.srcCn)
	if !r.jointAliasesSrc {
		gocvutil.CloseAll(r.jointCn)
	}
	gocvutil.CloseAll(r.sumWkPsi)
	if !r.sumWk.Empty() {
		r.sumWk.Close()
	}
	if r.cfg.AdjustOutliers && !r.minDist2.Empty() {
		r.minDist2.Close()
	}
}
