package jump

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
)

func TestNewLanding_EqualFallHeight(t *testing.T) {
	skier := dragFree()
	parent, err := surface.NewFlat(-30*math.Pi/180, 30, surface.Point{X: -2, Y: -3}, 0)
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}

	// horizontal launch at 8 m/s reaches (8, -g/2) after one second
	takeoff := surface.Point{}
	end := surface.Point{X: 8, Y: -physics.Gravity / 2}

	landing, err := NewLanding(skier, takeoff, 0, end, 1, parent)
	if err != nil {
		t.Fatalf("NewLanding failed: %v", err)
	}
	if landing.Len() != LandingPoints {
		t.Errorf("landing has %d samples, want %d", landing.Len(), LandingPoints)
	}
	if got := landing.End(); math.Abs(got.X-end.X) > 1e-12 || math.Abs(got.Y-end.Y) > 1e-12 {
		t.Errorf("landing ends at %v, want %v", got, end)
	}
	if got := landing.Start().X; math.Abs(got) > 1e-12 {
		t.Errorf("landing starts at x=%f, want 0", got)
	}

	efh, err := skier.CalculateEFH(landing, 0, takeoff, 1)
	if err != nil {
		t.Fatalf("CalculateEFH failed: %v", err)
	}
	for i, x := range efh.X {
		if x < 2 {
			continue
		}
		if math.Abs(efh.Height[i]-1) > 0.05 {
			t.Errorf("efh at x=%.1f = %f, want 1", x, efh.Height[i])
		}
	}
}

func TestNewLanding_BelowParent(t *testing.T) {
	// parent slope runs just under the takeoff, leaving no room for a drop
	parent, _ := surface.NewFlat(-10*math.Pi/180, 40, surface.Point{X: -2, Y: -0.2}, 0)
	end := surface.Point{X: 8, Y: -physics.Gravity / 2}

	_, err := NewLanding(dragFree(), surface.Point{}, 0, end, 3, parent)
	if !errors.Is(err, dynamo.ErrInfeasible) {
		t.Errorf("expected infeasible, got %v", err)
	}
}

func TestLanding_Shift(t *testing.T) {
	parent, _ := surface.NewFlat(-30*math.Pi/180, 30, surface.Point{X: -2, Y: -3}, 0)
	end := surface.Point{X: 8, Y: -physics.Gravity / 2}
	landing, err := NewLanding(dragFree(), surface.Point{}, 0, end, 1, parent)
	if err != nil {
		t.Fatalf("NewLanding failed: %v", err)
	}

	landing.Shift(4, -1)

	if landing.TakeoffPoint != (surface.Point{X: 4, Y: -1}) {
		t.Errorf("takeoff point = %v, want (4, -1)", landing.TakeoffPoint)
	}
	if got := landing.Start().X; math.Abs(got-landing.TakeoffPoint.X) > 1e-12 {
		t.Errorf("landing starts at x=%f, takeoff at %f", got, landing.TakeoffPoint.X)
	}
}
