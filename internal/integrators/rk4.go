package integrators

import "github.com/san-kum/skijump/internal/dynamo"

type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	k1 := dyn.Derive(x, t)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2 := dyn.Derive(r.scratch, t+dt*0.5)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3 := dyn.Derive(r.scratch, t+dt*0.5)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4 := dyn.Derive(r.scratch, t+dt)
	copy(r.k4, k4)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

// Integrate steps through the grid ts and returns the state at every grid
// point, starting with x0 at ts[0].
func (r *RK4) Integrate(dyn dynamo.System, x0 dynamo.State, ts []float64) ([]dynamo.State, error) {
	if len(x0) != dyn.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}
	states := make([]dynamo.State, len(ts))
	if len(ts) == 0 {
		return states, nil
	}
	x := x0.Clone()
	states[0] = x
	for i := 1; i < len(ts); i++ {
		x = r.Step(dyn, x, ts[i-1], ts[i]-ts[i-1])
		if !x.IsValid() {
			return states[:i], &dynamo.SimulationError{Step: i, Time: ts[i], State: x, Wrapped: dynamo.ErrInvalidState}
		}
		states[i] = x
	}
	return states, nil
}
