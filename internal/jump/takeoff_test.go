package jump

import (
	"math"
	"testing"

	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
)

func TestNewTakeoff(t *testing.T) {
	entry := -15 * math.Pi / 180
	exit := 25 * math.Pi / 180
	init := surface.Point{X: 38.6, Y: -10.35}

	to, err := NewTakeoff(physics.NewSkier(), entry, exit, 13, init, TakeoffOptions{})
	if err != nil {
		t.Fatalf("NewTakeoff failed: %v", err)
	}

	if start := to.Start(); math.Abs(start.X-init.X) > 1e-12 || math.Abs(start.Y-init.Y) > 1e-12 {
		t.Errorf("start = %v, want %v", start, init)
	}
	if to.RampSpeed <= 0 || to.RampSpeed >= 13 {
		t.Errorf("ramp speed = %f, want within (0, 13)", to.RampSpeed)
	}
	if got, want := to.Ramp.Length(), DefaultTimeOnRamp*to.RampSpeed; math.Abs(got-want) > 1e-9 {
		t.Errorf("ramp length = %f, want %f", got, want)
	}

	slope := to.Slope()
	if got := math.Atan(slope[len(slope)-1]); math.Abs(got-exit) > 1e-9 {
		t.Errorf("lip angle = %f, want %f", got, exit)
	}
	if end := to.End(); end != to.Ramp.End() {
		t.Errorf("takeoff ends at %v, ramp at %v", end, to.Ramp.End())
	}
}

func TestTakeoff_Shift(t *testing.T) {
	to, err := NewTakeoff(physics.NewSkier(), -15*math.Pi/180, 25*math.Pi/180, 13, surface.Point{X: 38.6, Y: -10.35}, TakeoffOptions{})
	if err != nil {
		t.Fatalf("NewTakeoff failed: %v", err)
	}
	lip := to.End()

	to.Shift(-38.6, 10.35)

	if start := to.Curve.Start(); start != to.Start() {
		t.Errorf("curve starts at %v, takeoff at %v", start, to.Start())
	}
	if end := to.End(); end != to.Ramp.End() {
		t.Errorf("takeoff ends at %v, ramp at %v", end, to.Ramp.End())
	}
	if got := to.Ramp.End(); math.Abs(got.X-(lip.X-38.6)) > 1e-9 || math.Abs(got.Y-(lip.Y+10.35)) > 1e-9 {
		t.Errorf("ramp end = %v, want lip %v moved", got, lip)
	}
	// the ramp line passes through its own shifted end
	if d := to.Ramp.DistanceFrom(to.Ramp.End().X, to.Ramp.End().Y); math.Abs(d) > 1e-9 {
		t.Errorf("ramp end is %g off the ramp line", d)
	}
}
