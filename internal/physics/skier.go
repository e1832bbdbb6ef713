package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/skijump/internal/surface"
)

const (
	Gravity    = surface.Gravity
	AirDensity = 0.85
)

// DragLaw returns the drag force for a velocity component.
type DragLaw func(v float64) float64

// FrictionLaw returns the sliding friction force for tangential speed v on
// a surface with the given slope and curvature.
type FrictionLaw func(v, slope, curvature float64) float64

type Skier struct {
	Mass                float64 // kg
	Area                float64 // m^2, frontal
	DragCoeff           float64
	FrictionCoeff       float64
	TolerableSlidingAcc float64 // G
	TolerableLandingAcc float64 // G
}

func NewSkier() *Skier {
	return &Skier{
		Mass:                75.0,
		Area:                0.34,
		DragCoeff:           0.821,
		FrictionCoeff:       0.03,
		TolerableSlidingAcc: 1.5,
		TolerableLandingAcc: 3.0,
	}
}

func (s *Skier) Validate() error {
	switch {
	case s.Mass <= 0:
		return fmt.Errorf("skier mass must be positive, got %g", s.Mass)
	case s.Area < 0:
		return fmt.Errorf("skier area must be non-negative, got %g", s.Area)
	case s.DragCoeff < 0:
		return fmt.Errorf("skier drag coefficient must be non-negative, got %g", s.DragCoeff)
	case s.FrictionCoeff < 0:
		return fmt.Errorf("skier friction coefficient must be non-negative, got %g", s.FrictionCoeff)
	case s.TolerableSlidingAcc <= 0:
		return fmt.Errorf("tolerable sliding acceleration must be positive, got %g", s.TolerableSlidingAcc)
	case s.TolerableLandingAcc <= 0:
		return fmt.Errorf("tolerable landing acceleration must be positive, got %g", s.TolerableLandingAcc)
	}
	return nil
}

// DragForce is -sign(v) * rho * Cd * A * v^2 / 2.
func (s *Skier) DragForce(v float64) float64 {
	return -sign(v) * 0.5 * AirDensity * s.DragCoeff * s.Area * v * v
}

// FrictionForce is -sign(v) * mu * N where the normal force includes the
// centripetal term of the surface curvature.
func (s *Skier) FrictionForce(v, slope, curvature float64) float64 {
	theta := math.Atan(slope)
	normal := s.Mass * (Gravity*math.Cos(theta) + curvature*v*v)
	return -sign(v) * s.FrictionCoeff * normal
}

func (s *Skier) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":                  s.Mass,
		"area":                  s.Area,
		"drag_coeff":            s.DragCoeff,
		"friction_coeff":        s.FrictionCoeff,
		"tolerable_sliding_acc": s.TolerableSlidingAcc,
		"tolerable_landing_acc": s.TolerableLandingAcc,
	}
}

func (s *Skier) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		s.Mass = value
	case "area":
		s.Area = value
	case "drag_coeff":
		s.DragCoeff = value
	case "friction_coeff":
		s.FrictionCoeff = value
	case "tolerable_sliding_acc":
		s.TolerableSlidingAcc = value
	case "tolerable_landing_acc":
		s.TolerableLandingAcc = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
