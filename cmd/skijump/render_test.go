package main

import (
	"strings"
	"testing"

	"github.com/san-kum/skijump/internal/jump"
	"github.com/san-kum/skijump/internal/storage"
)

func TestDesignSeries(t *testing.T) {
	rec := &storage.Record{
		Profile: []storage.ProfileRow{
			{Segment: "approach", X: 0, Y: 0},
			{Segment: "approach", X: 1, Y: -0.2},
			{Segment: "takeoff", X: 1, Y: -0.2},
			{Segment: "landing", X: 5, Y: -2},
			{Segment: "landing", X: 6, Y: -2.5},
		},
		Flight: []storage.FlightRow{
			{T: 0, X: 1, Y: -0.2, VX: 3, VY: 4},
			{T: 0.1, X: 1.3, Y: 0.1, VX: 3, VY: 3},
		},
	}

	series := designSeries(rec)
	if len(series) != 4 {
		t.Fatalf("expected 3 segments and a flight, got %d series", len(series))
	}
	if len(series[0].X) != 2 || len(series[1].X) != 1 || len(series[2].X) != 2 {
		t.Errorf("unexpected segment split: %+v", series)
	}
	if !series[3].Dotted || len(series[3].X) != 2 {
		t.Errorf("expected dotted flight series, got %+v", series[3])
	}

	speed := flightSpeed(rec)
	if speed[0] != 5 {
		t.Errorf("expected speed 5, got %f", speed[0])
	}
}

func TestOutputsSummary(t *testing.T) {
	out := outputsSummary(jump.Params{SlopeAngle: -15, FallHeight: 0.5}, jump.Outputs{
		TakeoffSpeed: 11.2,
		PeakSpeed:    12.75,
		DragLoss:     310.5,
		SnowBudget:   150,
	})
	for _, want := range []string{"peak flight speed", "12.750", "drag loss", "310.500", "snow budget"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
