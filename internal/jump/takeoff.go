package jump

import (
	"slices"

	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
)

const DefaultTimeOnRamp = 0.25 // s

type TakeoffOptions struct {
	TimeOnRamp float64
	Gamma      float64
	NumPoints  int
}

// Takeoff is a clothoid-circle-clothoid turn from the approach angle up to
// the takeoff angle followed by a straight ramp at the takeoff angle.
type Takeoff struct {
	*surface.Surface
	Curve     *surface.ClothoidCircle
	Ramp      *surface.Flat
	RampSpeed float64
}

// NewTakeoff builds the takeoff for a skier entering at entrySpeed. The
// ramp is as long as the skier travels in TimeOnRamp at the speed reached
// at the end of the turn.
func NewTakeoff(skier *physics.Skier, entryAngle, exitAngle, entrySpeed float64, init surface.Point, opts TakeoffOptions) (*Takeoff, error) {
	if opts.TimeOnRamp <= 0 {
		opts.TimeOnRamp = DefaultTimeOnRamp
	}

	curve, err := surface.NewClothoidCircle(surface.ClothoidParams{
		EntryAngle:   entryAngle,
		ExitAngle:    exitAngle,
		EntrySpeed:   entrySpeed,
		TolerableAcc: skier.TolerableSlidingAcc,
		Gamma:        opts.Gamma,
		NumPoints:    opts.NumPoints,
		Init:         init,
	})
	if err != nil {
		return nil, err
	}

	rampSpeed, err := skier.EndSpeedOn(curve, entrySpeed)
	if err != nil {
		return nil, err
	}

	rampLen := opts.TimeOnRamp * rampSpeed
	n := max(2, int(float64(curve.Len())*rampLen/curve.Length()))
	ramp, err := surface.NewFlat(exitAngle, rampLen, curve.End(), n)
	if err != nil {
		return nil, err
	}

	s, err := surface.New(
		slices.Concat(curve.X(), ramp.X()[1:]),
		slices.Concat(curve.Y(), ramp.Y()[1:]),
	)
	if err != nil {
		return nil, err
	}

	return &Takeoff{
		Surface:   s,
		Curve:     curve,
		Ramp:      ramp,
		RampSpeed: rampSpeed,
	}, nil
}

// Shift moves the takeoff together with its turn and ramp.
func (t *Takeoff) Shift(dx, dy float64) {
	t.Surface.Shift(dx, dy)
	t.Curve.Shift(dx, dy)
	t.Ramp.Shift(dx, dy)
}
