package metrics

import (
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/surface"
)

type FlightTime struct {
	start, end float64
	samples    int
}

func NewFlightTime() *FlightTime { return &FlightTime{} }

func (f *FlightTime) Name() string { return "flight_time" }

func (f *FlightTime) Observe(x dynamo.State, t float64) {
	if f.samples == 0 {
		f.start = t
	}
	f.end = t
	f.samples++
}

func (f *FlightTime) Value() float64 { return f.end - f.start }

func (f *FlightTime) Reset() { *f = FlightTime{} }

// Distance is the horizontal distance covered.
type Distance struct {
	start, end float64
	samples    int
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string { return "flight_distance" }

func (d *Distance) Observe(x dynamo.State, t float64) {
	if d.samples == 0 {
		d.start = x[0]
	}
	d.end = x[0]
	d.samples++
}

func (d *Distance) Value() float64 { return d.end - d.start }

func (d *Distance) Reset() { *d = Distance{} }

// Apex is the largest height of the flight above a surface.
type Apex struct {
	surf    surface.Profile
	height  float64
	samples int
}

func NewApex(surf surface.Profile) *Apex {
	return &Apex{surf: surf}
}

func (a *Apex) Name() string { return "flight_height" }

func (a *Apex) Observe(x dynamo.State, t float64) {
	h := x[1] - a.surf.InterpY(x[0])
	if a.samples == 0 || h > a.height {
		a.height = h
	}
	a.samples++
}

func (a *Apex) Value() float64 { return a.height }

func (a *Apex) Reset() {
	a.height = 0
	a.samples = 0
}

type PeakSpeed struct {
	speed float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(x dynamo.State, t float64) {
	p.speed = math.Max(p.speed, math.Hypot(x[2], x[3]))
}

func (p *PeakSpeed) Value() float64 { return p.speed }

func (p *PeakSpeed) Reset() { p.speed = 0 }
