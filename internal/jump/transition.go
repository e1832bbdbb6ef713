package jump

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/numeric"
	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
	"github.com/san-kum/skijump/internal/trajectory"
)

const (
	AccTolerance   = 0.001 // G
	DerivativeStep = 0.01  // m
	MaxSearchIter  = 1000

	DefaultTransitionPoints = 500
)

var maxSearchIter = MaxSearchIter

// LandingTransition is the exponential blend from the end of the landing
// surface back into the parent slope. Its start is the latest point on the
// flight where the blend stays within the tolerable landing acceleration.
type LandingTransition struct {
	*surface.Surface

	parent       surface.Profile
	flight       *trajectory.Trajectory
	fallHeight   float64
	tolerableAcc float64

	Parallel    trajectory.Sample
	TransitionX float64
	CharDist    float64
	Iterations  int

	// offset of this transition from the flight and parent it was built on
	offset surface.Point
}

func NewLandingTransition(parent surface.Profile, flight *trajectory.Trajectory, fallHeight, tolerableAcc float64, numPoints int) (*LandingTransition, error) {
	if !(fallHeight > 0) {
		return nil, dynamo.Infeasible("fall height must be positive, got %g", fallHeight)
	}
	if numPoints < 2 {
		numPoints = DefaultTransitionPoints
	}

	lt := &LandingTransition{
		parent:       parent,
		flight:       flight,
		fallHeight:   fallHeight,
		tolerableAcc: tolerableAcc,
	}

	para, err := lt.FindParallelTrajPoint()
	if err != nil {
		return nil, err
	}
	lt.Parallel = para

	xt, err := lt.FindTransitionPoint()
	if err != nil {
		return nil, err
	}

	_, charDist, err := lt.CalcTransAcc(xt)
	if err != nil {
		return nil, err
	}
	if !(charDist > 0) || math.IsInf(charDist, 0) {
		return nil, dynamo.Infeasible("transition characteristic length %g is not usable", charDist)
	}

	start, err := flight.InterpWrtX(xt)
	if err != nil {
		return nil, dynamo.InfeasibleCause(err, "flight position at transition")
	}
	dy := start.Y - parent.InterpY(xt)

	x := numeric.Linspace(xt, xt+3*charDist, numPoints)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = parent.InterpY(xi) + dy*math.Exp(-(xi-xt)/charDist)
	}

	s, err := surface.New(x, y)
	if err != nil {
		return nil, err
	}
	lt.Surface = s
	lt.TransitionX = xt
	lt.CharDist = charDist
	return lt, nil
}

// AllowableImpactSpeed is the landing normal speed equivalent to the fall
// height.
func AllowableImpactSpeed(fallHeight float64) float64 {
	return math.Sqrt(2 * physics.Gravity * fallHeight)
}

// CalcTransAcc returns the peak normal acceleration (G) of a transition
// starting on the flight at x, and the characteristic length of its
// exponential.
func (lt *LandingTransition) CalcTransAcc(x float64) (float64, float64, error) {
	x -= lt.offset.X
	s, err := lt.flight.InterpWrtX(x)
	if err != nil {
		return 0, 0, dynamo.InfeasibleCause(err, "flight state at x=%.3f", x)
	}

	vAllow := AllowableImpactSpeed(lt.fallHeight)
	rel := math.Pi / 2
	if vAllow < s.Speed {
		rel = math.Asin(vAllow / s.Speed)
	}
	landingAngle := s.Angle + rel
	mLanding := math.Tan(landingAngle)

	dh := s.Y - lt.parent.InterpY(x)
	charDist := math.Abs(dh / (mLanding - lt.parent.InterpSlope(x)))

	kappa := math.Abs(dh/(charDist*charDist)) / math.Pow(1+mLanding*mLanding, 1.5)
	acc := (kappa*s.Speed*s.Speed + physics.Gravity*math.Cos(landingAngle)) / physics.Gravity
	return acc, charDist, nil
}

// FindParallelTrajPoint returns the flight state where the path is
// parallel to the parent slope at that x.
func (lt *LandingTransition) FindParallelTrajPoint() (trajectory.Sample, error) {
	end := lt.flight.End()
	m := lt.parent.InterpSlope(end.X)
	s, err := lt.flight.InterpWrtSlope(m)
	if err != nil {
		return trajectory.Sample{}, dynamo.InfeasibleCause(err, "flight slope is not monotonic")
	}
	if s.X < lt.flight.Start().X || s.X > end.X {
		return trajectory.Sample{}, dynamo.Infeasible("flight never runs parallel to the parent slope")
	}
	s.X += lt.offset.X
	s.Y += lt.offset.Y
	return s, nil
}

// FindTransitionPoint searches along the flight for the x where the
// transition acceleration equals the tolerable landing acceleration. The
// Newton iteration is kept inside a bracket from the parallel point to just
// before the flight end, falling back to bisection when a step leaves it.
func (lt *LandingTransition) FindTransitionPoint() (float64, error) {
	var evalErr error
	g := func(x float64) float64 {
		acc, _, err := lt.CalcTransAcc(x)
		if err != nil {
			evalErr = err
			return math.NaN()
		}
		return acc - lt.tolerableAcc
	}
	settings := &fd.Settings{Formula: fd.Central, Step: DerivativeStep}

	lo := lt.Parallel.X
	hi := lt.flight.End().X + lt.offset.X - 2*DerivativeStep
	if hi <= lo {
		return 0, dynamo.Infeasible("flight too short for a landing transition")
	}

	if f := g(lo); evalErr != nil {
		return 0, evalErr
	} else if f > 0 {
		return 0, dynamo.Infeasible("transition acceleration %.3f G exceeds tolerance at the parallel point", f+lt.tolerableAcc)
	}

	x := lo
	for i := range maxSearchIter {
		lt.Iterations = i + 1
		f := g(x)
		if evalErr != nil {
			return 0, evalErr
		}
		if math.Abs(f) < AccTolerance {
			break
		}
		if f < 0 {
			lo = x
		} else {
			hi = x
		}

		d := fd.Derivative(g, x, settings)
		if evalErr != nil {
			return 0, evalErr
		}
		next := x - f/d
		if !(d > 0) || !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}
		x = next

		if i == maxSearchIter-1 {
			logging.L().Warn("transition search reached iteration cap",
				zap.Int("iterations", maxSearchIter),
				zap.Float64("x", x),
				zap.Float64("residual", f))
		}
	}

	logging.L().Debug("transition point",
		zap.Float64("x", x),
		zap.Float64("parallel_x", lt.Parallel.X),
		zap.Int("iterations", lt.Iterations))
	return x, nil
}

// Shift moves the transition surface and its search results. Later calls to
// CalcTransAcc and the search methods work in the shifted frame.
func (lt *LandingTransition) Shift(dx, dy float64) {
	lt.Surface.Shift(dx, dy)
	lt.offset.X += dx
	lt.offset.Y += dy
	lt.Parallel.X += dx
	lt.Parallel.Y += dy
	lt.TransitionX += dx
}
