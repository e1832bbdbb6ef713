package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Event ends an integration when Fn crosses zero. Direction -1 fires only
// on a positive to non-positive crossing, +1 only on negative to
// non-negative, 0 on either.
type Event struct {
	Fn        func(t float64, x dynamo.State) float64
	Direction int
}

type Options struct {
	Rtol      float64
	Atol      float64
	MaxStep   float64
	FirstStep float64
	MaxSteps  int
	Events    []Event
	// Eval, when set, replaces the accepted steps in the solution with
	// dense output at these points. They must be ordered along the
	// direction of integration.
	Eval []float64
}

func DefaultOptions() Options {
	return Options{
		Rtol:     1e-6,
		Atol:     1e-9,
		MaxSteps: 100000,
	}
}

type Solution struct {
	T []float64
	X []dynamo.State

	// EventIndex is the index of the event that ended the integration, or
	// -1 when the end of the span was reached.
	EventIndex int
	EventT     float64
	EventX     dynamo.State

	Steps    int
	Rejected int
}

func (s *Solution) Terminated() bool { return s.EventIndex >= 0 }

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Step advances a single step of size dt without error control.
func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	xNew, _, _ := r.attempt(dyn, x, dyn.Derive(x, t), t, dt)
	return xNew
}

// attempt takes one Dormand-Prince step from (t, x) with k1 = f(t, x). It
// returns the 5th order solution, its derivative (reused as the next k1)
// and the embedded error estimate.
func (r *RK45) attempt(dyn dynamo.System, x, k1 dynamo.State, t, dt float64) (dynamo.State, dynamo.State, dynamo.State) {
	n := len(x)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+dt)

	errEst := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		errEst[i] = dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
	}

	return xNew, k7, errEst
}

// Solve integrates dyn from span[0] to span[1] (which may be decreasing)
// with adaptive step size control, stopping early at the first event
// crossing.
func (r *RK45) Solve(dyn dynamo.System, span [2]float64, x0 dynamo.State, opts Options) (*Solution, error) {
	if len(x0) != dyn.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}
	if !x0.IsValid() {
		return nil, &dynamo.SimulationError{State: x0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}

	def := DefaultOptions()
	if opts.Rtol <= 0 {
		opts.Rtol = def.Rtol
	}
	if opts.Atol <= 0 {
		opts.Atol = def.Atol
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = def.MaxSteps
	}

	t0, t1 := span[0], span[1]
	dir := 1.0
	if t1 < t0 {
		dir = -1.0
	}

	sol := &Solution{EventIndex: -1}
	dense := len(opts.Eval) > 0
	evalIdx := 0

	// emit appends dense output samples of the step [ta, tb] up to limit.
	emit := func(ta float64, xa, fa dynamo.State, tb float64, xb, fb dynamo.State, limit float64) {
		for evalIdx < len(opts.Eval) && dir*(opts.Eval[evalIdx]-limit) <= 0 {
			te := opts.Eval[evalIdx]
			if dir*(te-ta) >= 0 {
				sol.T = append(sol.T, te)
				sol.X = append(sol.X, hermite(ta, xa, fa, tb, xb, fb, te))
			}
			evalIdx++
		}
	}

	t := t0
	x := x0.Clone()
	f := dyn.Derive(x, t)

	if !dense {
		sol.T = append(sol.T, t)
		sol.X = append(sol.X, x.Clone())
	} else {
		emit(t, x, f, t, x, f, t)
	}

	gPrev := make([]float64, len(opts.Events))
	for i, ev := range opts.Events {
		gPrev[i] = ev.Fn(t, x)
	}

	hAbs := opts.FirstStep
	if hAbs <= 0 {
		hAbs = r.initialStep(dyn, t, x, f, dir, opts)
	}
	if opts.MaxStep > 0 {
		hAbs = math.Min(hAbs, opts.MaxStep)
	}

	for dir*(t1-t) > 0 {
		if sol.Steps+sol.Rejected >= opts.MaxSteps {
			return sol, &dynamo.SimulationError{
				Step:    sol.Steps,
				Time:    t,
				State:   x.Clone(),
				Wrapped: fmt.Errorf("exceeded %d steps: %w", opts.MaxSteps, dynamo.ErrNoConvergence),
			}
		}

		minStep := 10 * math.Abs(math.Nextafter(t, t+dir)-t)
		if hAbs < minStep {
			return sol, &dynamo.SimulationError{Step: sol.Steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
		}

		tNew := t + dir*hAbs
		if dir*(tNew-t1) > 0 || math.Abs(t1-tNew) < minStep {
			tNew = t1
		}
		dt := tNew - t

		xNew, fNew, errEst := r.attempt(dyn, x, f, t, dt)

		errNorm := 0.0
		for i := range x {
			scale := opts.Atol + opts.Rtol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
			e := errEst[i] / scale
			errNorm += e * e
		}
		errNorm = math.Sqrt(errNorm / float64(len(x)))
		if !xNew.IsValid() || math.IsNaN(errNorm) {
			errNorm = math.Inf(1)
		}

		if errNorm > 1 {
			scale := r.minScale
			if !math.IsInf(errNorm, 1) {
				scale = math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.2))
			}
			hAbs = math.Abs(dt) * scale
			sol.Rejected++
			continue
		}

		var factor float64
		if errNorm == 0 {
			factor = r.maxScale
		} else {
			factor = math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
		}

		gNew := make([]float64, len(opts.Events))
		hit, tHit := -1, 0.0
		for i, ev := range opts.Events {
			gNew[i] = ev.Fn(tNew, xNew)
			if !crossed(gPrev[i], gNew[i], ev.Direction) {
				continue
			}
			tr := locate(ev, t, gPrev[i], tNew, gNew[i], func(tt float64) dynamo.State {
				return hermite(t, x, f, tNew, xNew, fNew, tt)
			})
			if hit < 0 || dir*(tr-tHit) < 0 {
				hit, tHit = i, tr
			}
		}

		sol.Steps++

		if hit >= 0 {
			xHit := hermite(t, x, f, tNew, xNew, fNew, tHit)
			if dense {
				emit(t, x, f, tNew, xNew, fNew, tHit)
			} else if dir*(tHit-t) > 0 {
				sol.T = append(sol.T, tHit)
				sol.X = append(sol.X, xHit.Clone())
			}
			sol.EventIndex = hit
			sol.EventT = tHit
			sol.EventX = xHit
			return sol, nil
		}

		if dense {
			emit(t, x, f, tNew, xNew, fNew, tNew)
		} else {
			sol.T = append(sol.T, tNew)
			sol.X = append(sol.X, xNew.Clone())
		}

		t, x, f, gPrev = tNew, xNew, fNew, gNew

		hAbs = math.Abs(dt) * factor
		if opts.MaxStep > 0 {
			hAbs = math.Min(hAbs, opts.MaxStep)
		}
	}

	return sol, nil
}

// initialStep estimates a first step size from the scale of the state and
// its derivatives (Hairer, Norsett & Wanner, II.4).
func (r *RK45) initialStep(dyn dynamo.System, t0 float64, x0, f0 dynamo.State, dir float64, opts Options) float64 {
	n := float64(len(x0))
	d0, d1 := 0.0, 0.0
	for i := range x0 {
		scale := opts.Atol + math.Abs(x0[i])*opts.Rtol
		d0 += (x0[i] / scale) * (x0[i] / scale)
		d1 += (f0[i] / scale) * (f0[i] / scale)
	}
	d0 = math.Sqrt(d0 / n)
	d1 = math.Sqrt(d1 / n)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}

	x1 := make(dynamo.State, len(x0))
	for i := range x0 {
		x1[i] = x0[i] + dir*h0*f0[i]
	}
	f1 := dyn.Derive(x1, t0+dir*h0)

	d2 := 0.0
	for i := range x0 {
		scale := opts.Atol + math.Abs(x0[i])*opts.Rtol
		d := (f1[i] - f0[i]) / scale
		d2 += d * d
	}
	d2 = math.Sqrt(d2/n) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 0.2)
	}

	return math.Min(100*h0, h1)
}

func crossed(g0, g1 float64, direction int) bool {
	switch {
	case direction < 0:
		return g0 > 0 && g1 <= 0
	case direction > 0:
		return g0 < 0 && g1 >= 0
	default:
		return (g0 > 0 && g1 <= 0) || (g0 < 0 && g1 >= 0)
	}
}

// locate finds the event root inside [ta, tb] with the Illinois variant of
// regula falsi on the dense output.
func locate(ev Event, ta, ga, tb, gb float64, interp func(float64) dynamo.State) float64 {
	side := 0
	tc := tb
	for i := 0; i < 100; i++ {
		if gb == ga {
			tc = 0.5 * (ta + tb)
		} else {
			tc = (ta*gb - tb*ga) / (gb - ga)
		}
		gc := ev.Fn(tc, interp(tc))
		if gc == 0 || math.Abs(tb-ta) < 1e-13*math.Max(1, math.Abs(tb)) {
			return tc
		}
		if (gc > 0) == (gb > 0) {
			tb, gb = tc, gc
			if side == -1 {
				ga *= 0.5
			}
			side = -1
		} else {
			ta, ga = tc, gc
			if side == 1 {
				gb *= 0.5
			}
			side = 1
		}
	}
	return tc
}

// hermite evaluates the cubic Hermite interpolant of a step at t.
func hermite(t0 float64, x0, f0 dynamo.State, t1 float64, x1, f1 dynamo.State, t float64) dynamo.State {
	h := t1 - t0
	out := make(dynamo.State, len(x0))
	if h == 0 {
		copy(out, x1)
		return out
	}
	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	for i := range x0 {
		out[i] = h00*x0[i] + h10*h*f0[i] + h01*x1[i] + h11*h*f1[i]
	}
	return out
}
