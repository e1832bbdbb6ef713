// Package trajectory holds a sampled time parameterised path with its
// velocity, acceleration and the slope, angle and speed derived from them.
package trajectory

import (
	"errors"
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/numeric"
)

var ErrNotMonotonic = errors.New("trajectory: interpolation key is not monotonic")

// Sample is the trajectory state at one instant.
type Sample struct {
	T      float64
	X, Y   float64
	VX, VY float64
	AX, AY float64
	Slope  float64
	Angle  float64
	Speed  float64
}

type Trajectory struct {
	t      []float64
	x, y   []float64
	vx, vy []float64
	ax, ay []float64
	slope  []float64
	angle  []float64
	speed  []float64
}

// New builds a trajectory. vel and acc may be nil, in which case they are
// finite differenced from pos and vel respectively.
func New(t []float64, pos, vel, acc [][2]float64) (*Trajectory, error) {
	n := len(t)
	switch {
	case n < 2:
		return nil, dynamo.Infeasible("trajectory needs at least two samples, got %d", n)
	case len(pos) != n:
		return nil, dynamo.Infeasible("trajectory position length %d != time length %d", len(pos), n)
	case vel != nil && len(vel) != n:
		return nil, dynamo.Infeasible("trajectory velocity length %d != time length %d", len(vel), n)
	case acc != nil && len(acc) != n:
		return nil, dynamo.Infeasible("trajectory acceleration length %d != time length %d", len(acc), n)
	case !numeric.StrictlyIncreasing(t):
		return nil, dynamo.Infeasible("trajectory time must be strictly increasing")
	}

	tr := &Trajectory{t: append([]float64(nil), t...)}
	tr.x, tr.y = split(pos)
	if vel != nil {
		tr.vx, tr.vy = split(vel)
	} else {
		tr.vx = numeric.Gradient(tr.x, tr.t)
		tr.vy = numeric.Gradient(tr.y, tr.t)
	}
	if acc != nil {
		tr.ax, tr.ay = split(acc)
	} else {
		tr.ax = numeric.Gradient(tr.vx, tr.t)
		tr.ay = numeric.Gradient(tr.vy, tr.t)
	}

	tr.slope = make([]float64, n)
	tr.angle = make([]float64, n)
	tr.speed = make([]float64, n)
	for i := range tr.t {
		tr.slope[i] = tr.vy[i] / tr.vx[i]
		tr.angle[i] = math.Atan2(tr.vy[i], tr.vx[i])
		tr.speed[i] = math.Hypot(tr.vx[i], tr.vy[i])
	}
	return tr, nil
}

func split(v [][2]float64) ([]float64, []float64) {
	a := make([]float64, len(v))
	b := make([]float64, len(v))
	for i := range v {
		a[i], b[i] = v[i][0], v[i][1]
	}
	return a, b
}

func (tr *Trajectory) Len() int { return len(tr.t) }

// The returned slices are owned by the trajectory and must not be modified.
func (tr *Trajectory) T() []float64     { return tr.t }
func (tr *Trajectory) X() []float64     { return tr.x }
func (tr *Trajectory) Y() []float64     { return tr.y }
func (tr *Trajectory) VX() []float64    { return tr.vx }
func (tr *Trajectory) VY() []float64    { return tr.vy }
func (tr *Trajectory) AX() []float64    { return tr.ax }
func (tr *Trajectory) AY() []float64    { return tr.ay }
func (tr *Trajectory) Slope() []float64 { return tr.slope }
func (tr *Trajectory) Angle() []float64 { return tr.angle }
func (tr *Trajectory) Speed() []float64 { return tr.speed }

func (tr *Trajectory) At(i int) Sample {
	return Sample{
		T: tr.t[i], X: tr.x[i], Y: tr.y[i],
		VX: tr.vx[i], VY: tr.vy[i],
		AX: tr.ax[i], AY: tr.ay[i],
		Slope: tr.slope[i], Angle: tr.angle[i], Speed: tr.speed[i],
	}
}

func (tr *Trajectory) Start() Sample { return tr.At(0) }
func (tr *Trajectory) End() Sample   { return tr.At(len(tr.t) - 1) }

func (tr *Trajectory) Duration() float64 {
	return tr.t[len(tr.t)-1] - tr.t[0]
}

// InterpWrtX interpolates every field at horizontal position x. Positions
// must be strictly increasing in x.
func (tr *Trajectory) InterpWrtX(x float64) (Sample, error) {
	if !numeric.StrictlyIncreasing(tr.x) {
		return Sample{}, ErrNotMonotonic
	}
	return tr.interp(tr.x, x, false), nil
}

// InterpWrtSlope interpolates every field where the path slope equals m.
// The slope may be monotonically increasing or decreasing.
func (tr *Trajectory) InterpWrtSlope(m float64) (Sample, error) {
	switch {
	case numeric.StrictlyIncreasing(tr.slope):
		return tr.interp(tr.slope, m, false), nil
	case numeric.StrictlyIncreasing(numeric.Reverse(tr.slope)):
		return tr.interp(tr.slope, m, true), nil
	}
	return Sample{}, ErrNotMonotonic
}

func (tr *Trajectory) interp(key []float64, v float64, reversed bool) Sample {
	at := func(col []float64) float64 {
		if reversed {
			return numeric.Interp(numeric.Reverse(key), numeric.Reverse(col), v)
		}
		return numeric.Interp(key, col, v)
	}
	return Sample{
		T: at(tr.t), X: at(tr.x), Y: at(tr.y),
		VX: at(tr.vx), VY: at(tr.vy),
		AX: at(tr.ax), AY: at(tr.ay),
		Slope: at(tr.slope), Angle: at(tr.angle), Speed: at(tr.speed),
	}
}

// Shift translates all positions.
func (tr *Trajectory) Shift(dx, dy float64) {
	for i := range tr.x {
		tr.x[i] += dx
		tr.y[i] += dy
	}
}
