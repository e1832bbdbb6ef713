package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE right-hand side dX/dt = f(X, t). The independent
// variable need not be time: the landing surface integrates over x.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Configurable exposes named model parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
