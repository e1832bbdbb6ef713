package physics

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/surface"
)

const (
	// SpeedCeiling is the launch speed (100 mph) beyond which landing
	// points count as unreachable.
	SpeedCeiling = 44.0 // m/s

	DefaultEFHIncrement = 0.2 // m
)

// EFH holds the equivalent fall height sweep of a surface. Points beyond
// the speed ceiling are NaN.
type EFH struct {
	X            []float64
	Height       []float64
	TakeoffSpeed []float64
}

// CalculateEFH computes, every increment along surf from the takeoff x
// (or the surface start, whichever is later), the fall height equivalent
// to landing there after launching from takeoff at angle (rad).
func (s *Skier) CalculateEFH(surf surface.Profile, angle float64, takeoff surface.Point, increment float64) (*EFH, error) {
	if !(math.Abs(angle) < math.Pi/2) {
		return nil, dynamo.Infeasible("takeoff angle %.3f rad must be within (-pi/2, pi/2)", angle)
	}
	if increment <= 0 {
		increment = DefaultEFHIncrement
	}

	start, end := surf.Start(), surf.End()
	switch {
	case takeoff.X > end.X:
		return nil, dynamo.Infeasible("takeoff point is downhill of the landing surface")
	case takeoff.X >= start.X && takeoff.Y < surf.InterpY(takeoff.X)-1e-9:
		return nil, dynamo.Infeasible("takeoff point is below the landing surface")
	case takeoff.X < start.X && (start.X-takeoff.X)*math.Tan(angle) <= start.Y-takeoff.Y:
		return nil, dynamo.Infeasible("takeoff angle cannot reach the landing surface from above")
	}

	ys := surf.Y()
	lo := math.Min(slices.Min(ys), takeoff.Y)
	hi := math.Max(slices.Max(ys), takeoff.Y)
	catchX := math.Min(start.X, takeoff.X) - 1
	catch, err := surface.NewHorizontal(lo-0.1*(hi-lo)-1, end.X-catchX+2, catchX, 0)
	if err != nil {
		return nil, err
	}

	x0 := math.Max(start.X, takeoff.X)
	n := int(math.Floor((end.X-x0)/increment+1e-9)) + 1

	out := &EFH{
		X:            make([]float64, n),
		Height:       make([]float64, n),
		TakeoffSpeed: make([]float64, n),
	}

	unreachable := false
	for i := range n {
		x := x0 + float64(i)*increment
		out.X[i] = x
		if unreachable {
			out.Height[i] = math.NaN()
			out.TakeoffSpeed[i] = math.NaN()
			continue
		}

		v0, impact, err := s.SpeedToLandAt(surface.Point{X: x, Y: surf.InterpY(x)}, takeoff, angle, catch)
		if err != nil {
			return nil, err
		}
		if v0 > SpeedCeiling {
			logging.L().Warn("landing surface unreachable beyond speed ceiling",
				zap.Float64("x", x),
				zap.Float64("takeoff_speed", v0),
				zap.Float64("ceiling", SpeedCeiling))
			unreachable = true
			out.Height[i] = math.NaN()
			out.TakeoffSpeed[i] = math.NaN()
			continue
		}

		out.TakeoffSpeed[i] = v0
		out.Height[i] = FallHeight(impact, math.Atan(surf.InterpSlope(x)))
	}
	return out, nil
}

// FallHeight is the drop height giving the same surface normal speed as
// landing with velocity impact on a surface inclined at surfAngle.
func FallHeight(impact [2]float64, surfAngle float64) float64 {
	speed := math.Hypot(impact[0], impact[1])
	if speed == 0 {
		return 0
	}
	impactAngle := math.Atan2(impact[1], impact[0])
	n := speed * math.Sin(surfAngle-impactAngle)
	return n * n / (2 * Gravity)
}
