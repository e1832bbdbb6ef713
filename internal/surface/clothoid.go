package surface

import (
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/numeric"
)

const (
	Gravity = 9.81

	// DefaultGamma is the share of the turn taken by the circular arc.
	DefaultGamma = 0.99
)

type ClothoidParams struct {
	EntryAngle   float64 // rad
	ExitAngle    float64 // rad
	EntrySpeed   float64 // m/s
	TolerableAcc float64 // multiples of g
	Gamma        float64
	NumPoints    int
	Init         Point
}

// ClothoidCircle is a clothoid, circular arc, clothoid curve turning from
// EntryAngle to ExitAngle. The arc radius keeps the normal acceleration at
// EntrySpeed within TolerableAcc.
type ClothoidCircle struct {
	*Surface
	Radius         float64
	ClothoidLength float64
	entry, exit    float64
}

func NewClothoidCircle(p ClothoidParams) (*ClothoidCircle, error) {
	if p.Gamma == 0 {
		p.Gamma = DefaultGamma
	}
	if p.NumPoints < 2 {
		p.NumPoints = 5 * DefaultNumPoints
	}

	switch {
	case !(math.Abs(p.EntryAngle) < math.Pi/2) || !(math.Abs(p.ExitAngle) < math.Pi/2):
		return nil, dynamo.Infeasible("clothoid angles must be within (-pi/2, pi/2)")
	case !(p.EntryAngle < p.ExitAngle):
		return nil, dynamo.Infeasible("clothoid entry angle %.4f must be below exit angle %.4f", p.EntryAngle, p.ExitAngle)
	case !(p.EntrySpeed > 0):
		return nil, dynamo.Infeasible("clothoid entry speed must be positive, got %g", p.EntrySpeed)
	case !(p.TolerableAcc > 0):
		return nil, dynamo.Infeasible("clothoid tolerable acceleration must be positive, got %g", p.TolerableAcc)
	case !(p.Gamma > 0 && p.Gamma < 1):
		return nil, dynamo.Infeasible("clothoid gamma must be within (0, 1), got %g", p.Gamma)
	}

	radius := p.EntrySpeed * p.EntrySpeed / (p.TolerableAcc * Gravity)
	turn := p.ExitAngle - p.EntryAngle
	length := radius * (1 - p.Gamma) * turn
	a2 := radius * length
	tauL := length / (2 * radius)

	arc := radius * p.Gamma * turn
	total := 2*length + arc
	nClothoid := max(3, int(float64(p.NumPoints)*length/total))
	nArc := max(3, p.NumPoints-2*nClothoid)

	var x, y []float64

	// entry arm
	sinE, cosE := math.Sincos(p.EntryAngle)
	for _, s := range numeric.Linspace(0, length, nClothoid) {
		cx, cy := fresnel(s, a2)
		x = append(x, cosE*cx-sinE*cy)
		y = append(y, sinE*cx+cosE*cy)
	}

	// circular arc
	phi1 := p.EntryAngle + tauL
	phi2 := p.ExitAngle - tauL
	p1x, p1y := x[len(x)-1], y[len(y)-1]
	centerX := p1x - radius*math.Sin(phi1)
	centerY := p1y + radius*math.Cos(phi1)
	for _, phi := range numeric.Linspace(phi1, phi2, nArc)[1:] {
		x = append(x, centerX+radius*math.Sin(phi))
		y = append(y, centerY-radius*math.Cos(phi))
	}

	// exit arm, walked backwards from the end point
	sinX, cosX := math.Sincos(p.ExitAngle)
	local := func(u float64) (float64, float64) {
		cx, cy := fresnel(u, a2)
		return cosX*(-cx) - sinX*cy, sinX*(-cx) + cosX*cy
	}
	p2x, p2y := x[len(x)-1], y[len(y)-1]
	lx, ly := local(length)
	endX, endY := p2x-lx, p2y-ly
	for _, u := range numeric.Linspace(length, 0, nClothoid)[1:] {
		ux, uy := local(u)
		x = append(x, endX+ux)
		y = append(y, endY+uy)
	}

	for i := range x {
		x[i] += p.Init.X
		y[i] += p.Init.Y
	}

	s, err := New(x, y)
	if err != nil {
		return nil, dynamo.InfeasibleCause(err, "clothoid curve")
	}

	return &ClothoidCircle{
		Surface:        s,
		Radius:         radius,
		ClothoidLength: length,
		entry:          p.EntryAngle,
		exit:           p.ExitAngle,
	}, nil
}

func (c *ClothoidCircle) EntryAngle() float64 { return c.entry }
func (c *ClothoidCircle) ExitAngle() float64  { return c.exit }

// fresnel evaluates the clothoid x(s), y(s) with scaling a2 = A^2 by its
// power series, truncated after the third term.
func fresnel(s, a2 float64) (float64, float64) {
	a4 := a2 * a2
	a6 := a4 * a2
	a8 := a4 * a4
	a10 := a8 * a2
	s2 := s * s
	s3 := s2 * s
	s5 := s3 * s2
	s7 := s5 * s2
	s9 := s7 * s2
	s11 := s9 * s2

	x := s - s5/(40*a4) + s9/(3456*a8)
	y := s3/(6*a2) - s7/(336*a6) + s11/(42240*a10)
	return x, y
}
