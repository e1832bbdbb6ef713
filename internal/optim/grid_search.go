package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/jump"
	"github.com/san-kum/skijump/internal/logging"
)

// Designer builds one jump. jump.MakeJump in production.
type Designer func(ctx context.Context, p jump.Params, opts jump.Options) (*jump.Design, error)

// Axis is one swept design parameter, named by its config key.
type Axis struct {
	Name   string
	Values []float64
}

type Point struct {
	Params  jump.Params
	Outputs jump.Outputs
	Err     error
}

func (p Point) Feasible() bool { return p.Err == nil }

type Result struct {
	Points     []Point
	Best       *Point
	Infeasible int
}

type GridSearch struct {
	base    jump.Params
	axes    []Axis
	opts    jump.Options
	workers int
	design  Designer
}

func NewGridSearch(base jump.Params, axes []Axis, opts jump.Options) *GridSearch {
	return &GridSearch{
		base:    base,
		axes:    axes,
		opts:    opts,
		workers: runtime.NumCPU(),
		design:  jump.MakeJump,
	}
}

func (g *GridSearch) SetWorkers(n int) {
	if n > 0 {
		g.workers = n
	}
}

func (g *GridSearch) SetDesigner(d Designer) {
	g.design = d
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Search designs every grid point and picks the feasible one with the
// smallest snow budget. Infeasible points are recorded, not fatal; only
// cancellation aborts the search.
func (g *GridSearch) Search(ctx context.Context) (*Result, error) {
	grid, err := g.expand()
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(grid))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, p := range grid {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := g.design(ctx, p, g.opts)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				points[i] = Point{Params: p, Err: err}
				return nil
			}
			points[i] = Point{Params: p, Outputs: d.Outputs}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Points: points}
	best := math.Inf(1)
	for i := range points {
		pt := &points[i]
		if !pt.Feasible() {
			res.Infeasible++
			if !errors.Is(pt.Err, dynamo.ErrInfeasible) {
				logging.L().Warn("grid point failed", zap.Int("index", i), zap.Error(pt.Err))
			}
			continue
		}
		if pt.Outputs.SnowBudget < best {
			best = pt.Outputs.SnowBudget
			res.Best = pt
		}
	}

	logging.L().Debug("grid search done",
		zap.Int("points", len(points)),
		zap.Int("infeasible", res.Infeasible))
	return res, nil
}

// expand lists the grid in row-major order, last axis fastest.
func (g *GridSearch) expand() ([]jump.Params, error) {
	grid := []jump.Params{g.base}
	for _, a := range g.axes {
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("axis %s has no values", a.Name)
		}
		next := make([]jump.Params, 0, len(grid)*len(a.Values))
		for _, p := range grid {
			for _, v := range a.Values {
				if err := SetParam(&p, a.Name, v); err != nil {
					return nil, err
				}
				next = append(next, p)
			}
		}
		grid = next
	}
	return grid, nil
}

func SetParam(p *jump.Params, name string, v float64) error {
	switch name {
	case "slope_angle":
		p.SlopeAngle = v
	case "start_pos":
		p.StartPos = v
	case "approach_len":
		p.ApproachLen = v
	case "takeoff_angle":
		p.TakeoffAngle = v
	case "fall_height":
		p.FallHeight = v
	default:
		return fmt.Errorf("unknown design parameter: %s", name)
	}
	return nil
}

// ParseAxis reads "name=lo:hi:step" or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return Axis{}, fmt.Errorf("invalid axis %q, want name=lo:hi:step or name=v1,v2", s)
	}
	if err := SetParam(&jump.Params{}, name, 0); err != nil {
		return Axis{}, err
	}

	if parts := strings.Split(list, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		step, err3 := strconv.ParseFloat(parts[2], 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			return Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		if step <= 0 || hi < lo {
			return Axis{}, fmt.Errorf("axis %s: need lo <= hi and step > 0", name)
		}
		n := int(math.Floor((hi-lo)/step+1e-9)) + 1
		values := make([]float64, n)
		for i := range n {
			values[i] = lo + float64(i)*step
		}
		return Axis{Name: name, Values: values}, nil
	}

	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		values = append(values, v)
	}
	return Axis{Name: name, Values: values}, nil
}
