// Package metrics summarises flights. Each Metric observes the flight
// state [x y vx vy] sample by sample.
package metrics

import (
	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/trajectory"
)

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Collect resets ms, feeds them every sample of tr and returns their values
// by name.
func Collect(tr *trajectory.Trajectory, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := range tr.Len() {
		s := tr.At(i)
		x := dynamo.State{s.X, s.Y, s.VX, s.VY}
		for _, m := range ms {
			m.Observe(x, s.T)
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
