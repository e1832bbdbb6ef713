package jump

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/integrators"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/numeric"
	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
)

const (
	LandingPoints  = 1000
	landingMaxStep = 1.0
	landingRtol    = 1e-4
	angleMargin    = 0.01 // rad
)

// Landing is the surface on which every landing from the takeoff point
// has the same equivalent fall height.
type Landing struct {
	*surface.Surface
	FallHeight   float64
	TakeoffPoint surface.Point
	TakeoffAngle float64
}

// landingSlope is the ODE dy/dx of the equal fall height surface, with x as
// the independent variable. State: [y].
type landingSlope struct {
	skier   *physics.Skier
	takeoff surface.Point
	angle   float64
	vAllow  float64
	catch   surface.Contact
	err     error
}

func (m *landingSlope) StateDim() int { return 1 }

func (m *landingSlope) Derive(y dynamo.State, x float64) dynamo.State {
	if m.err != nil {
		return dynamo.State{0}
	}
	limit := math.Pi/2 - angleMargin

	// above the takeoff tangent nothing lands; steer back below it
	dx := x - m.takeoff.X
	if dx > 1e-10 && dx*math.Tan(m.angle)-(y[0]-m.takeoff.Y) <= 0 {
		return dynamo.State{math.Tan(limit)}
	}

	_, impact, err := m.skier.SpeedToLandAt(surface.Point{X: x, Y: y[0]}, m.takeoff, m.angle, m.catch)
	if err != nil {
		m.err = err
		return dynamo.State{0}
	}

	speed := math.Hypot(impact[0], impact[1])
	impactAngle := -math.Pi / 2
	if speed > 0 {
		impactAngle = math.Atan2(impact[1], impact[0])
	}

	beta := math.Pi/2 + angleMargin
	if speed > 0 && m.vAllow/speed <= 1 {
		beta = math.Asin(m.vAllow / speed)
	}

	theta := math.Max(-limit, math.Min(limit, impactAngle+beta))
	return dynamo.State{math.Tan(theta)}
}

// NewLanding integrates the landing surface backwards in x from maxLanding
// (the start of the landing transition) to the takeoff x.
func NewLanding(skier *physics.Skier, takeoff surface.Point, takeoffAngle float64, maxLanding surface.Point, fallHeight float64, parent surface.Profile) (*Landing, error) {
	if !(fallHeight > 0) {
		return nil, dynamo.Infeasible("fall height must be positive, got %g", fallHeight)
	}
	if !(maxLanding.X > takeoff.X) {
		return nil, dynamo.Infeasible("landing end %.3f must lie beyond the takeoff %.3f", maxLanding.X, takeoff.X)
	}

	lo := math.Min(takeoff.Y, math.Min(maxLanding.Y, parent.InterpY(maxLanding.X)))
	hi := math.Max(takeoff.Y, maxLanding.Y)
	catchX := takeoff.X - 1
	catch, err := surface.NewHorizontal(lo-0.1*(hi-lo)-1, maxLanding.X-catchX+2, catchX, 0)
	if err != nil {
		return nil, err
	}

	model := &landingSlope{
		skier:   skier,
		takeoff: takeoff,
		angle:   takeoffAngle,
		vAllow:  AllowableImpactSpeed(fallHeight),
		catch:   catch,
	}

	failed := integrators.Event{
		Fn: func(_ float64, _ dynamo.State) float64 {
			if model.err != nil {
				return -1
			}
			return 1
		},
		Direction: -1,
	}

	sol, err := integrators.NewRK45().Solve(model,
		[2]float64{maxLanding.X, takeoff.X},
		dynamo.State{maxLanding.Y},
		integrators.Options{
			Rtol:    landingRtol,
			Atol:    1e-6,
			MaxStep: landingMaxStep,
			Events:  []integrators.Event{failed},
			Eval:    numeric.Linspace(maxLanding.X, takeoff.X, LandingPoints),
		})
	if model.err != nil {
		return nil, model.err
	}
	if err != nil {
		return nil, dynamo.InfeasibleCause(err, "landing surface integration failed")
	}
	if len(sol.T) < 2 {
		return nil, dynamo.Infeasible("landing surface integration produced %d samples", len(sol.T))
	}

	x := numeric.Reverse(sol.T)
	y := make([]float64, len(sol.X))
	for i, st := range sol.X {
		y[len(y)-1-i] = st[0]
	}

	s, err := surface.New(x, y)
	if err != nil {
		return nil, err
	}

	gap := s.HeightAbove(parent)
	if i := slices.IndexFunc(gap, func(h float64) bool { return h < 0 }); i >= 0 {
		return nil, dynamo.Infeasible("fall height too large: landing surface is %.3f m below the parent slope at x=%.2f", -gap[i], s.X()[i])
	}

	logging.L().Debug("landing surface",
		zap.Float64("start_x", x[0]),
		zap.Float64("end_x", x[len(x)-1]),
		zap.Int("steps", sol.Steps),
		zap.Int("rejected", sol.Rejected))

	return &Landing{
		Surface:      s,
		FallHeight:   fallHeight,
		TakeoffPoint: takeoff,
		TakeoffAngle: takeoffAngle,
	}, nil
}

// Shift moves the landing surface and the takeoff point it was built from.
func (l *Landing) Shift(dx, dy float64) {
	l.Surface.Shift(dx, dy)
	l.TakeoffPoint.X += dx
	l.TakeoffPoint.Y += dy
}
