package jump

import (
	"context"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/metrics"
	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
	"github.com/san-kum/skijump/internal/trajectory"
)

// Params are the design inputs. Angles are in degrees, lengths in metres.
type Params struct {
	SlopeAngle   float64 `json:"slope_angle" yaml:"slope_angle"`
	StartPos     float64 `json:"start_pos" yaml:"start_pos"`
	ApproachLen  float64 `json:"approach_len" yaml:"approach_len"`
	TakeoffAngle float64 `json:"takeoff_angle" yaml:"takeoff_angle"`
	FallHeight   float64 `json:"fall_height" yaml:"fall_height"`
}

func (p Params) Validate() error {
	switch {
	case !(p.SlopeAngle > -90 && p.SlopeAngle < 90):
		return dynamo.Infeasible("slope angle %.2f must be within (-90, 90) degrees", p.SlopeAngle)
	case !(p.TakeoffAngle > p.SlopeAngle && p.TakeoffAngle < 90):
		return dynamo.Infeasible("takeoff angle %.2f must be between the slope angle %.2f and 90 degrees", p.TakeoffAngle, p.SlopeAngle)
	case !(p.FallHeight > 0):
		return dynamo.Infeasible("fall height must be positive, got %g", p.FallHeight)
	case !(p.ApproachLen > 0):
		return dynamo.Infeasible("approach length must be positive, got %g", p.ApproachLen)
	case p.StartPos < 0:
		return dynamo.Infeasible("start position must be non-negative, got %g", p.StartPos)
	}
	return nil
}

type Options struct {
	Skier            *physics.Skier
	TimeOnRamp       float64
	Gamma            float64
	TakeoffPoints    int
	TransitionPoints int
	Flight           physics.FlightOptions
}

func DefaultOptions() Options {
	return Options{
		Skier:            physics.NewSkier(),
		TimeOnRamp:       DefaultTimeOnRamp,
		Gamma:            surface.DefaultGamma,
		TakeoffPoints:    5 * surface.DefaultNumPoints,
		TransitionPoints: DefaultTransitionPoints,
		Flight:           physics.DefaultFlightOptions(),
	}
}

type Outputs struct {
	TakeoffSpeed   float64 `json:"takeoff_speed"`
	FlightTime     float64 `json:"flight_time"`
	FlightDistance float64 `json:"flight_distance"`
	FlightHeight   float64 `json:"flight_height"`
	SnowBudget     float64 `json:"snow_budget"`
	PeakSpeed      float64 `json:"peak_speed"`
	DragLoss       float64 `json:"drag_loss"`
}

type Design struct {
	Params     Params
	Skier      *physics.Skier
	Slope      *surface.Flat
	Approach   *surface.Flat
	Takeoff    *Takeoff
	Landing    *Landing
	Transition *LandingTransition
	Flight     *trajectory.Trajectory
	Outputs    Outputs
}

// MakeJump designs a jump for p. The context is checked between stages.
func MakeJump(ctx context.Context, p Params, opts Options) (*Design, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	skier := opts.Skier
	if skier == nil {
		skier = physics.NewSkier()
	}
	if err := skier.Validate(); err != nil {
		return nil, err
	}

	log := logging.L().With(
		zap.Float64("slope_angle", p.SlopeAngle),
		zap.Float64("takeoff_angle", p.TakeoffAngle),
		zap.Float64("fall_height", p.FallHeight))

	slopeAngle := deg2rad(p.SlopeAngle)
	takeoffAngle := deg2rad(p.TakeoffAngle)

	parent, err := surface.NewFlat(slopeAngle, 4*(p.StartPos+p.ApproachLen), surface.Point{}, 0)
	if err != nil {
		return nil, fmt.Errorf("parent slope: %w", err)
	}

	start := surface.Point{X: p.StartPos * math.Cos(slopeAngle), Y: p.StartPos * math.Sin(slopeAngle)}
	approach, err := surface.NewFlat(slopeAngle, p.ApproachLen, start, 0)
	if err != nil {
		return nil, fmt.Errorf("approach: %w", err)
	}

	entrySpeed, err := skier.EndSpeedOn(approach, 0)
	if err != nil {
		return nil, fmt.Errorf("approach: %w", err)
	}
	log.Debug("approach", zap.Float64("entry_speed", entrySpeed))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	takeoff, err := NewTakeoff(skier, slopeAngle, takeoffAngle, entrySpeed, approach.End(), TakeoffOptions{
		TimeOnRamp: opts.TimeOnRamp,
		Gamma:      opts.Gamma,
		NumPoints:  opts.TakeoffPoints,
	})
	if err != nil {
		return nil, fmt.Errorf("takeoff: %w", err)
	}

	exitVel, err := skier.EndVelOn(takeoff, entrySpeed)
	if err != nil {
		return nil, fmt.Errorf("takeoff: %w", err)
	}
	lip := takeoff.End()
	log.Debug("takeoff",
		zap.Float64("ramp_speed", takeoff.RampSpeed),
		zap.Float64("lip_x", lip.X),
		zap.Float64("lip_y", lip.Y))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flightOpts := opts.Flight
	flightOpts.Fine = true
	flightOpts.StopAtX = nil

	toParent, err := skier.FlyTo(parent, [2]float64{lip.X, lip.Y}, exitVel, flightOpts)
	if err != nil {
		return nil, fmt.Errorf("flight to parent slope: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trans, err := NewLandingTransition(parent, toParent, p.FallHeight, skier.TolerableLandingAcc, opts.TransitionPoints)
	if err != nil {
		return nil, fmt.Errorf("landing transition: %w", err)
	}
	log.Debug("landing transition",
		zap.Float64("x", trans.TransitionX),
		zap.Float64("char_dist", trans.CharDist))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	landing, err := NewLanding(skier, lip, takeoffAngle, trans.Start(), p.FallHeight, parent)
	if err != nil {
		return nil, fmt.Errorf("landing: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := surface.New(
		slices.Concat(landing.X(), trans.X()[1:]),
		slices.Concat(landing.Y(), trans.Y()[1:]),
	)
	if err != nil {
		return nil, fmt.Errorf("landing profile: %w", err)
	}

	flight, err := skier.FlyTo(profile, [2]float64{lip.X, lip.Y}, exitVel, flightOpts)
	if err != nil {
		return nil, fmt.Errorf("flight to landing: %w", err)
	}

	d := &Design{
		Params:     p,
		Skier:      skier,
		Slope:      parent,
		Approach:   approach,
		Takeoff:    takeoff,
		Landing:    landing,
		Transition: trans,
		Flight:     flight,
	}

	budget, err := d.SnowBudget()
	if err != nil {
		return nil, fmt.Errorf("snow budget: %w", err)
	}

	m := metrics.Collect(flight,
		metrics.NewFlightTime(),
		metrics.NewDistance(),
		metrics.NewApex(profile),
		metrics.NewPeakSpeed(),
		metrics.NewEnergyLoss(skier.FlightModel()))

	d.Outputs = Outputs{
		TakeoffSpeed:   math.Hypot(exitVel[0], exitVel[1]),
		FlightTime:     m["flight_time"],
		FlightDistance: m["flight_distance"],
		FlightHeight:   m["flight_height"],
		SnowBudget:     budget,
		PeakSpeed:      m["peak_speed"],
		DragLoss:       m["energy_loss"],
	}

	log.Info("jump designed",
		zap.Float64("takeoff_speed", d.Outputs.TakeoffSpeed),
		zap.Float64("flight_time", d.Outputs.FlightTime),
		zap.Float64("snow_budget", d.Outputs.SnowBudget))
	return d, nil
}

// LandingEFH sweeps the equivalent fall height along the landing surface.
func (d *Design) LandingEFH(skier *physics.Skier, increment float64) (*physics.EFH, error) {
	if skier == nil {
		skier = d.Skier
	}
	return skier.CalculateEFH(d.Landing, deg2rad(d.Params.TakeoffAngle), d.Takeoff.End(), increment)
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
