package surface

import (
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/numeric"
)

// Flat is a straight line at a fixed angle.
type Flat struct {
	*Surface
	angle float64
}

// NewFlat builds a line of the given length (measured along the line)
// starting at init. Angle is in radians.
func NewFlat(angle, length float64, init Point, numPoints int) (*Flat, error) {
	if !(math.Abs(angle) < math.Pi/2) {
		return nil, dynamo.Infeasible("flat surface angle %.3f rad must be within (-pi/2, pi/2)", angle)
	}
	if !(length > 0) {
		return nil, dynamo.Infeasible("flat surface length must be positive, got %g", length)
	}

	x1 := init.X + length*math.Cos(angle)
	x := numeric.Linspace(init.X, x1, pointCount(numPoints, x1-init.X))
	m := math.Tan(angle)

	y := make([]float64, len(x))
	slope := make([]float64, len(x))
	for i := range x {
		y[i] = init.Y + m*(x[i]-init.X)
		slope[i] = m
	}

	return &Flat{
		Surface: &Surface{x: x, y: y, slope: slope, curvature: make([]float64, len(x))},
		angle:   angle,
	}, nil
}

func (f *Flat) Angle() float64 { return f.angle }

func (f *Flat) DistanceFrom(xp, yp float64) float64 {
	yLine := f.y[0] + math.Tan(f.angle)*(xp-f.x[0])
	return (yp - yLine) * math.Cos(f.angle)
}

// Horizontal is a flat surface at constant height.
type Horizontal struct {
	*Surface
}

func NewHorizontal(height, length, start float64, numPoints int) (*Horizontal, error) {
	if !(length > 0) {
		return nil, dynamo.Infeasible("horizontal surface length must be positive, got %g", length)
	}

	x := numeric.Linspace(start, start+length, pointCount(numPoints, length))
	y := make([]float64, len(x))
	for i := range y {
		y[i] = height
	}

	return &Horizontal{
		Surface: &Surface{x: x, y: y, slope: make([]float64, len(x)), curvature: make([]float64, len(x))},
	}, nil
}

func (h *Horizontal) Height() float64 { return h.y[0] }

func (h *Horizontal) DistanceFrom(xp, yp float64) float64 {
	return yp - h.y[0]
}

func pointCount(requested int, span float64) int {
	if requested < 2 {
		requested = DefaultNumPoints
	}
	return max(requested, int(math.Ceil(span/MaxSpacing))+1)
}
