// Package surface models two dimensional snow profiles y(x) sampled at
// strictly increasing x, with the geometric queries the jump designer
// needs: interpolation, signed distance, arc length and areas.
package surface

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/numeric"
)

const (
	// MaxSpacing is the largest horizontal gap allowed between samples.
	MaxSpacing = 0.3

	DefaultNumPoints = 100
)

// ErrOutOfDomain is returned when an integral is requested outside the
// sampled x range.
var ErrOutOfDomain = errors.New("surface: bounds outside surface domain")

type Point struct {
	X, Y float64
}

// Contact is anything a flying skier can land on.
type Contact interface {
	DistanceFrom(xp, yp float64) float64
}

// Profile is the read-only view of a surface shared by all surface kinds.
type Profile interface {
	Contact
	X() []float64
	Y() []float64
	InterpY(x float64) float64
	InterpSlope(x float64) float64
	InterpCurvature(x float64) float64
	Start() Point
	End() Point
}

type Surface struct {
	x         []float64
	y         []float64
	slope     []float64
	curvature []float64
}

// New builds a surface from coordinate arrays. Repeated x values keep
// their first sample; gaps wider than MaxSpacing are filled by linear
// interpolation.
func New(x, y []float64) (*Surface, error) {
	if len(x) != len(y) {
		return nil, dynamo.Infeasible("surface x and y lengths differ (%d != %d)", len(x), len(y))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			return nil, dynamo.Infeasible("surface contains non-finite coordinates at index %d", i)
		}
		if len(xs) > 0 && x[i] == xs[len(xs)-1] {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	if len(xs) < 2 {
		return nil, dynamo.Infeasible("surface needs at least two distinct x values")
	}
	if !numeric.StrictlyIncreasing(xs) {
		return nil, dynamo.Infeasible("surface x values must be monotonically increasing")
	}

	xs, ys = fillGaps(xs, ys, MaxSpacing)
	slope := numeric.Gradient(ys, xs)

	return &Surface{
		x:         xs,
		y:         ys,
		slope:     slope,
		curvature: curvatureOf(slope, xs),
	}, nil
}

func fillGaps(x, y []float64, maxGap float64) ([]float64, []float64) {
	widest := 0.0
	for i := 1; i < len(x); i++ {
		widest = math.Max(widest, x[i]-x[i-1])
	}
	if widest <= maxGap {
		return x, y
	}

	logging.L().Warn("surface spacing too coarse, resampling",
		zap.Float64("max_spacing", widest),
		zap.Float64("limit", maxGap))

	nx := []float64{x[0]}
	ny := []float64{y[0]}
	for i := 1; i < len(x); i++ {
		gap := x[i] - x[i-1]
		if gap > maxGap {
			k := int(math.Ceil(gap / maxGap))
			for j := 1; j < k; j++ {
				f := float64(j) / float64(k)
				nx = append(nx, x[i-1]+f*gap)
				ny = append(ny, y[i-1]+f*(y[i]-y[i-1]))
			}
		}
		nx = append(nx, x[i])
		ny = append(ny, y[i])
	}
	return nx, ny
}

func curvatureOf(slope, x []float64) []float64 {
	d2 := numeric.Gradient(slope, x)
	out := make([]float64, len(slope))
	for i, m := range slope {
		out[i] = d2[i] / math.Pow(1+m*m, 1.5)
	}
	return out
}

// The returned slices are owned by the surface and must not be modified.
func (s *Surface) X() []float64         { return s.x }
func (s *Surface) Y() []float64         { return s.y }
func (s *Surface) Slope() []float64     { return s.slope }
func (s *Surface) Curvature() []float64 { return s.curvature }
func (s *Surface) Len() int             { return len(s.x) }

func (s *Surface) Start() Point { return Point{s.x[0], s.y[0]} }

func (s *Surface) End() Point {
	n := len(s.x) - 1
	return Point{s.x[n], s.y[n]}
}

func (s *Surface) InterpY(x float64) float64 {
	return numeric.Interp(s.x, s.y, x)
}

func (s *Surface) InterpSlope(x float64) float64 {
	return numeric.Interp(s.x, s.slope, x)
}

func (s *Surface) InterpCurvature(x float64) float64 {
	return numeric.Interp(s.x, s.curvature, x)
}

// DistanceFrom returns the shortest distance from (xp, yp) to the
// surface, negative when the point lies below it. The squared distance is
// minimised over the segments adjacent to the nearest sample, with the end
// segments extended like the interpolation.
func (s *Surface) DistanceFrom(xp, yp float64) float64 {
	n := len(s.x)
	i := s.nearest(xp, yp)

	best := math.Inf(1)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j+1 >= n {
			continue
		}
		lo, hi := 0.0, 1.0
		if j == 0 {
			lo = math.Inf(-1)
		}
		if j+1 == n-1 {
			hi = math.Inf(1)
		}
		best = math.Min(best, segmentDist2(s.x[j], s.y[j], s.x[j+1], s.y[j+1], xp, yp, lo, hi))
	}

	d := math.Sqrt(best)
	if yp < s.InterpY(xp) {
		d = -d
	}
	return d
}

func (s *Surface) nearest(xp, yp float64) int {
	idx := 0
	best := math.Inf(1)
	for i := range s.x {
		dx := s.x[i] - xp
		dy := s.y[i] - yp
		if d := dx*dx + dy*dy; d < best {
			best, idx = d, i
		}
	}
	return idx
}

// segmentDist2 is the squared distance from p to the segment a-b, where
// the segment parameter is clamped to [lo, hi].
func segmentDist2(ax, ay, bx, by, px, py, lo, hi float64) float64 {
	dx, dy := bx-ax, by-ay
	u := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	u = math.Max(lo, math.Min(hi, u))
	ex := ax + u*dx - px
	ey := ay + u*dy - py
	return ex*ex + ey*ey
}

// Length is the arc length of the surface.
func (s *Surface) Length() float64 {
	n := 2 * len(s.x)
	n = max(64, min(n, 2000))
	f := func(x float64) float64 {
		m := s.InterpSlope(x)
		return math.Sqrt(1 + m*m)
	}
	return quad.Fixed(f, s.x[0], s.x[len(s.x)-1], n, nil, 0)
}

// Area is the signed area under the whole surface.
func (s *Surface) Area() float64 {
	return numeric.Trapz(s.x, s.y)
}

// AreaUnder is the signed area under the surface between x0 and x1.
func (s *Surface) AreaUnder(x0, x1 float64) (float64, error) {
	const tol = 1e-9
	start, end := s.x[0], s.x[len(s.x)-1]
	if x0 < start-tol || x1 > end+tol || x0 > x1 {
		return 0, fmt.Errorf("area over [%g, %g] with domain [%g, %g]: %w", x0, x1, start, end, ErrOutOfDomain)
	}

	xs := []float64{x0}
	ys := []float64{s.InterpY(x0)}
	for i, x := range s.x {
		if x > x0 && x < x1 {
			xs = append(xs, x)
			ys = append(ys, s.y[i])
		}
	}
	xs = append(xs, x1)
	ys = append(ys, s.InterpY(x1))

	return numeric.Trapz(xs, ys), nil
}

// HeightAbove returns the vertical gap to other at each of this
// surface's samples.
func (s *Surface) HeightAbove(other Profile) []float64 {
	out := make([]float64, len(s.x))
	for i, x := range s.x {
		out[i] = s.y[i] - other.InterpY(x)
	}
	return out
}

// Shift translates every sample. Slope and curvature are unchanged.
func (s *Surface) Shift(dx, dy float64) {
	for i := range s.x {
		s.x[i] += dx
		s.y[i] += dy
	}
}
