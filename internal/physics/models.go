package physics

import (
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/surface"
)

// FlightModel is a point mass in air. State: [x, y, vx, vy].
type FlightModel struct {
	Mass float64
	Drag DragLaw
}

func (s *Skier) FlightModel() *FlightModel {
	return &FlightModel{Mass: s.Mass, Drag: s.DragForce}
}

func (m *FlightModel) StateDim() int {
	return 4
}

func (m *FlightModel) Derive(x dynamo.State, t float64) dynamo.State {
	vx, vy := x[2], x[3]
	return dynamo.State{
		vx,
		vy,
		m.Drag(vx) / m.Mass,
		-Gravity + m.Drag(vy)/m.Mass,
	}
}

// Energy is the kinetic plus potential energy relative to y = 0.
func (m *FlightModel) Energy(x dynamo.State) float64 {
	ke := 0.5 * m.Mass * (x[2]*x[2] + x[3]*x[3])
	pe := m.Mass * Gravity * x[1]
	return ke + pe
}

// SlideModel moves along a surface with tangential speed v. State: [x, v].
type SlideModel struct {
	Mass     float64
	Drag     DragLaw
	Friction FrictionLaw
	Surface  surface.Profile
}

func (s *Skier) SlideModel(surf surface.Profile) *SlideModel {
	return &SlideModel{
		Mass:     s.Mass,
		Drag:     s.DragForce,
		Friction: s.FrictionForce,
		Surface:  surf,
	}
}

func (m *SlideModel) StateDim() int {
	return 2
}

func (m *SlideModel) Derive(x dynamo.State, t float64) dynamo.State {
	pos, v := x[0], x[1]
	slope := m.Surface.InterpSlope(pos)
	kappa := m.Surface.InterpCurvature(pos)
	theta := math.Atan(slope)

	force := m.Drag(v) + m.Friction(v, slope, kappa)
	return dynamo.State{
		v * math.Cos(theta),
		-Gravity*math.Sin(theta) + force/m.Mass,
	}
}
