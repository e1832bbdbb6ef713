package physics

import (
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/integrators"
	"github.com/san-kum/skijump/internal/surface"
	"github.com/san-kum/skijump/internal/trajectory"
)

const MaxSlideTime = 300.0 // s

// SlideOn integrates the skier along surf from its first sample with
// initial tangential speed v0 until the last sample is reached.
func (s *Skier) SlideOn(surf surface.Profile, v0 float64) (*trajectory.Trajectory, error) {
	if v0 < 0 {
		return nil, dynamo.Infeasible("initial sliding speed must be non-negative, got %g", v0)
	}

	model := s.SlideModel(surf)
	xEnd := surf.End().X

	events := []integrators.Event{
		{Fn: func(_ float64, x dynamo.State) float64 { return x[0] - xEnd }, Direction: 1},
		{Fn: func(_ float64, x dynamo.State) float64 { return x[1] }, Direction: -1},
	}

	x0 := dynamo.State{surf.Start().X, v0}
	sol, err := integrators.NewRK45().Solve(model, [2]float64{0, MaxSlideTime}, x0, integrators.Options{
		Rtol:   1e-6,
		Atol:   1e-9,
		Events: events,
	})
	if err != nil {
		return nil, dynamo.InfeasibleCause(err, "slide integration failed")
	}
	if sol.EventIndex != 0 {
		return nil, dynamo.Infeasible("insufficient speed to traverse surface")
	}
	for _, x := range sol.X {
		if x[1] < 0 {
			return nil, dynamo.Infeasible("insufficient speed to traverse surface")
		}
	}

	n := len(sol.T)
	pos := make([][2]float64, n)
	vel := make([][2]float64, n)
	acc := make([][2]float64, n)
	for i, x := range sol.X {
		theta := math.Atan(surf.InterpSlope(x[0]))
		cos, sin := math.Cos(theta), math.Sin(theta)
		a := model.Derive(x, sol.T[i])[1]
		pos[i] = [2]float64{x[0], surf.InterpY(x[0])}
		vel[i] = [2]float64{x[1] * cos, x[1] * sin}
		acc[i] = [2]float64{a * cos, a * sin}
	}
	return trajectory.New(sol.T, pos, vel, acc)
}

// EndSpeedOn is the speed at the end of surf after sliding from rest or v0.
func (s *Skier) EndSpeedOn(surf surface.Profile, v0 float64) (float64, error) {
	tr, err := s.SlideOn(surf, v0)
	if err != nil {
		return 0, err
	}
	return tr.End().Speed, nil
}

// EndVelOn is the velocity vector at the end of surf.
func (s *Skier) EndVelOn(surf surface.Profile, v0 float64) ([2]float64, error) {
	tr, err := s.SlideOn(surf, v0)
	if err != nil {
		return [2]float64{}, err
	}
	end := tr.End()
	return [2]float64{end.VX, end.VY}, nil
}
