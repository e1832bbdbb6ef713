package physics

import (
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/surface"
)

const (
	LandingTolerance = 0.001 // m
	MaxIterations    = 1000

	// Trial flights must resolve the landing height well below
	// LandingTolerance or the fixed-sensitivity update cycles on the noise.
	trialRtol    = 1e-10
	trialMaxStep = 0.02 // s
)

var maxLaunchIterations = MaxIterations

// trialFlightOptions ends an unsampled flight at x = stop.
func trialFlightOptions(stop float64) FlightOptions {
	return FlightOptions{
		StopAtX: &stop,
		Rtol:    trialRtol,
		MaxStep: trialMaxStep,
	}
}

// SpeedToLandAt finds the launch speed at the given takeoff angle (rad)
// that carries the skier from takeoff through landing. catch bounds each
// trial flight and must lie below the landing point. It returns the
// launch speed and the velocity on arrival.
func (s *Skier) SpeedToLandAt(landing, takeoff surface.Point, angle float64, catch surface.Contact) (float64, [2]float64, error) {
	dx := landing.X - takeoff.X
	dy := landing.Y - takeoff.Y
	if math.Abs(dx) < 1e-10 {
		return 0, [2]float64{}, nil
	}
	if dx < 0 {
		return 0, [2]float64{}, dynamo.Infeasible("landing x %.3f is behind takeoff x %.3f", landing.X, takeoff.X)
	}

	tan := math.Tan(angle)
	rise := dx*tan - dy
	if rise <= 0 {
		return 0, [2]float64{}, dynamo.Infeasible(
			"landing point (%.3f, %.3f) unreachable at takeoff angle %.2f deg",
			landing.X, landing.Y, angle*180/math.Pi)
	}

	// no drag projectile through the landing point
	cos := math.Cos(angle)
	v0 := math.Sqrt(Gravity * dx * dx / (2 * cos * cos * rise))
	dvdy := v0 / (2 * rise)

	opts := trialFlightOptions(landing.X)
	sin := math.Sin(angle)

	for i := range maxLaunchIterations {
		tr, err := s.FlyTo(catch, [2]float64{takeoff.X, takeoff.Y}, [2]float64{v0 * cos, v0 * sin}, opts)
		if err != nil {
			return 0, [2]float64{}, dynamo.InfeasibleCause(err, "trial flight at %.3f m/s", v0)
		}

		end := tr.End()
		if end.X < landing.X-1e-9 {
			// caught before reaching the target x
			v0 *= 1.25
			continue
		}

		diff := end.Y - landing.Y
		if math.Abs(diff) < LandingTolerance {
			logging.L().Debug("launch speed solved",
				zap.Float64("x", landing.X),
				zap.Float64("speed", v0),
				zap.Int("iterations", i+1))
			return v0, [2]float64{end.VX, end.VY}, nil
		}

		v0 -= diff * dvdy
		if v0 <= 0 {
			return 0, [2]float64{}, dynamo.Infeasible("launch speed search for x=%.3f went non-positive", landing.X)
		}
	}

	return 0, [2]float64{}, dynamo.InfeasibleCause(dynamo.ErrNoConvergence,
		"launch speed to reach (%.3f, %.3f) did not converge in %d iterations",
		landing.X, landing.Y, maxLaunchIterations)
}
