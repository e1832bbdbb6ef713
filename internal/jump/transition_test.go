package jump

import (
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
	"github.com/san-kum/skijump/internal/trajectory"
)

func dragFree() *physics.Skier {
	s := physics.NewSkier()
	s.Area = 0
	s.FrictionCoeff = 0
	return s
}

func testFlight(t *testing.T, parent surface.Contact) *trajectory.Trajectory {
	t.Helper()
	tr, err := dragFree().FlyTo(parent, [2]float64{10, 2}, [2]float64{12, 3}, physics.DefaultFlightOptions())
	if err != nil {
		t.Fatalf("FlyTo failed: %v", err)
	}
	return tr
}

func TestLandingTransition(t *testing.T) {
	angle := -15 * math.Pi / 180
	parent, err := surface.NewFlat(angle, 200, surface.Point{}, 0)
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}
	flight := testFlight(t, parent)

	lt, err := NewLandingTransition(parent, flight, 0.5, 3, 200)
	if err != nil {
		t.Fatalf("NewLandingTransition failed: %v", err)
	}

	tPara := (3 - 12*math.Tan(angle)) / physics.Gravity
	if want := 10 + 12*tPara; math.Abs(lt.Parallel.X-want) > 1e-3 {
		t.Errorf("parallel x = %f, want %f", lt.Parallel.X, want)
	}
	if lt.TransitionX <= lt.Parallel.X || lt.TransitionX >= flight.End().X {
		t.Errorf("transition x %f outside (%f, %f)", lt.TransitionX, lt.Parallel.X, flight.End().X)
	}

	acc, _, err := lt.CalcTransAcc(lt.TransitionX)
	if err != nil {
		t.Fatalf("CalcTransAcc failed: %v", err)
	}
	if math.Abs(acc-3) > AccTolerance {
		t.Errorf("transition acceleration = %f G, want 3", acc)
	}

	start := lt.Start()
	onFlight, _ := flight.InterpWrtX(start.X)
	if math.Abs(start.Y-onFlight.Y) > 1e-9 {
		t.Errorf("transition starts at y=%f, flight at %f", start.Y, onFlight.Y)
	}

	end := lt.End()
	gap := end.Y - parent.InterpY(end.X)
	startGap := start.Y - parent.InterpY(start.X)
	if math.Abs(gap-startGap*math.Exp(-3)) > 1e-9 {
		t.Errorf("end gap = %f, want %f", gap, startGap*math.Exp(-3))
	}
}

func TestLandingTransition_Shift(t *testing.T) {
	parent, err := surface.NewFlat(-15*math.Pi/180, 200, surface.Point{}, 0)
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}
	lt, err := NewLandingTransition(parent, testFlight(t, parent), 0.5, 3, 200)
	if err != nil {
		t.Fatalf("NewLandingTransition failed: %v", err)
	}
	before, _, err := lt.CalcTransAcc(lt.TransitionX)
	if err != nil {
		t.Fatalf("CalcTransAcc failed: %v", err)
	}
	xt, para := lt.TransitionX, lt.Parallel

	lt.Shift(5, -2)

	if math.Abs(lt.TransitionX-(xt+5)) > 1e-12 {
		t.Errorf("transition x = %f, want %f", lt.TransitionX, xt+5)
	}
	if math.Abs(lt.Start().X-lt.TransitionX) > 1e-12 {
		t.Errorf("surface starts at %f, transition x %f", lt.Start().X, lt.TransitionX)
	}
	after, _, err := lt.CalcTransAcc(lt.TransitionX)
	if err != nil {
		t.Fatalf("CalcTransAcc after shift failed: %v", err)
	}
	if math.Abs(after-before) > 1e-9 {
		t.Errorf("acceleration after shift = %f, before %f", after, before)
	}

	got, err := lt.FindParallelTrajPoint()
	if err != nil {
		t.Fatalf("FindParallelTrajPoint failed: %v", err)
	}
	if math.Abs(got.X-(para.X+5)) > 1e-9 || math.Abs(got.Y-(para.Y-2)) > 1e-9 {
		t.Errorf("parallel point = (%f, %f), want (%f, %f)", got.X, got.Y, para.X+5, para.Y-2)
	}
	if x, err := lt.FindTransitionPoint(); err != nil || math.Abs(x-lt.TransitionX) > 1e-3 {
		t.Errorf("FindTransitionPoint = %f, %v; want %f", x, err, lt.TransitionX)
	}
}

func TestFindTransitionPoint_IterationCap(t *testing.T) {
	defer func(n int) { maxSearchIter = n }(maxSearchIter)
	maxSearchIter = 1

	parent, _ := surface.NewFlat(-15*math.Pi/180, 200, surface.Point{}, 0)
	flight := testFlight(t, parent)

	core, logs := observer.New(zap.WarnLevel)
	logging.Set(zap.New(core))
	defer logging.Set(nil)

	// a single step cannot settle on the tolerable acceleration
	_, _ = NewLandingTransition(parent, flight, 0.5, 3, 200)

	capped := logs.FilterMessage("transition search reached iteration cap")
	if capped.Len() != 1 {
		t.Fatalf("expected 1 cap warning, got %d of %d entries", capped.Len(), logs.Len())
	}
	if capped.All()[0].ContextMap()["iterations"] != int64(1) {
		t.Errorf("unexpected fields %v", capped.All()[0].ContextMap())
	}
}

func TestAllowableImpactSpeed(t *testing.T) {
	if got := AllowableImpactSpeed(0.5); math.Abs(got-math.Sqrt(physics.Gravity)) > 1e-12 {
		t.Errorf("AllowableImpactSpeed(0.5) = %f", got)
	}
}

func TestNewLandingTransition_InvalidFallHeight(t *testing.T) {
	parent, _ := surface.NewFlat(-0.2, 100, surface.Point{}, 0)
	if _, err := NewLandingTransition(parent, testFlight(t, parent), 0, 3, 0); err == nil {
		t.Error("expected error for zero fall height")
	}
}
