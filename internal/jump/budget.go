package jump

import (
	"math"

	"github.com/san-kum/skijump/internal/surface"
)

// SnowBudget is the cross section between the parent slope and the built
// profile (takeoff, landing and transition) over the jump's extent.
func (d *Design) SnowBudget() (float64, error) {
	x0 := d.Takeoff.Start().X
	x1 := d.Transition.End().X

	parent := d.Slope
	if end := parent.End(); x1 > end.X {
		// rebuild a longer slope along the same line
		length := (x1 - parent.Start().X + 1) / math.Cos(parent.Angle())
		longer, err := surface.NewFlat(parent.Angle(), length, parent.Start(), 0)
		if err != nil {
			return 0, err
		}
		parent = longer
	}

	parentArea, err := parent.AreaUnder(x0, x1)
	if err != nil {
		return 0, err
	}
	built := d.Takeoff.Area() + d.Landing.Area() + d.Transition.Area()
	return math.Abs(parentArea - built), nil
}
