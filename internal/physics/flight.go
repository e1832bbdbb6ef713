package physics

import (
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/integrators"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/numeric"
	"github.com/san-kum/skijump/internal/surface"
	"github.com/san-kum/skijump/internal/trajectory"
)

const (
	MaxFlightTime     = 30.0  // s
	DefaultSampleRate = 360.0 // Hz
	flightRtol        = 1e-6
	flightAtol        = 1e-8
)

type FlightOptions struct {
	// Fine re-integrates the flight on an equally spaced time grid at
	// SampleRate once the impact time is known.
	Fine       bool
	ComputeAcc bool
	SampleRate float64
	MaxTime    float64
	// StopAtX, when set, also ends the flight once x reaches it.
	StopAtX *float64
	Rtol    float64
	// MaxStep bounds the adaptive step (s). Zero leaves it unbounded.
	MaxStep float64
}

func DefaultFlightOptions() FlightOptions {
	return FlightOptions{
		Fine:       true,
		ComputeAcc: true,
		SampleRate: DefaultSampleRate,
		MaxTime:    MaxFlightTime,
		Rtol:       flightRtol,
	}
}

// FlyTo integrates a flight from pos with velocity vel until the skier
// first touches surf from above.
func (s *Skier) FlyTo(surf surface.Contact, pos, vel [2]float64, opts FlightOptions) (*trajectory.Trajectory, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.MaxTime <= 0 {
		opts.MaxTime = MaxFlightTime
	}
	if opts.Rtol <= 0 {
		opts.Rtol = flightRtol
	}

	model := s.FlightModel()
	x0 := dynamo.State{pos[0], pos[1], vel[0], vel[1]}

	events := []integrators.Event{{
		Fn:        func(_ float64, x dynamo.State) float64 { return surf.DistanceFrom(x[0], x[1]) },
		Direction: -1,
	}}
	if opts.StopAtX != nil {
		target := *opts.StopAtX
		events = append(events, integrators.Event{
			Fn:        func(_ float64, x dynamo.State) float64 { return x[0] - target },
			Direction: 1,
		})
	}

	sol, err := integrators.NewRK45().Solve(model, [2]float64{0, opts.MaxTime}, x0, integrators.Options{
		Rtol:    opts.Rtol,
		Atol:    flightAtol,
		MaxStep: opts.MaxStep,
		Events:  events,
	})
	if err != nil {
		return nil, dynamo.InfeasibleCause(err, "flight integration failed")
	}
	if !sol.Terminated() {
		return nil, dynamo.InfeasibleCause(dynamo.ErrNoTermination, "skier never lands within %.0f s", opts.MaxTime)
	}

	ts, xs := sol.T, sol.X
	if opts.Fine {
		n := max(2, int(math.Ceil(sol.EventT*opts.SampleRate))+1)
		ts = numeric.Linspace(0, sol.EventT, n)
		xs, err = integrators.NewRK4().Integrate(model, x0, ts)
		if err != nil {
			return nil, dynamo.InfeasibleCause(err, "fine flight integration failed")
		}
	}

	logging.L().Debug("flight",
		zap.Float64("impact_time", sol.EventT),
		zap.Int("event", sol.EventIndex),
		zap.Int("steps", sol.Steps),
		zap.Int("rejected", sol.Rejected))

	return flightTrajectory(model, ts, xs, opts.ComputeAcc)
}

func flightTrajectory(model *FlightModel, ts []float64, xs []dynamo.State, withAcc bool) (*trajectory.Trajectory, error) {
	pos := make([][2]float64, len(xs))
	vel := make([][2]float64, len(xs))
	acc := make([][2]float64, len(xs))
	for i, x := range xs {
		pos[i] = [2]float64{x[0], x[1]}
		vel[i] = [2]float64{x[2], x[3]}
		if withAcc {
			d := model.Derive(x, ts[i])
			acc[i] = [2]float64{d[2], d[3]}
		}
	}
	return trajectory.New(ts, pos, vel, acc)
}
