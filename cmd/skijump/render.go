package main

import (
	"math"

	"github.com/san-kum/skijump/internal/jump"
	"github.com/san-kum/skijump/internal/storage"
	"github.com/san-kum/skijump/internal/viz"
)

func outputsSummary(p jump.Params, o jump.Outputs) string {
	return viz.Summary("jump design", []viz.Row{
		{Label: "slope angle", Value: p.SlopeAngle, Unit: "deg"},
		{Label: "approach length", Value: p.ApproachLen, Unit: "m"},
		{Label: "takeoff angle", Value: p.TakeoffAngle, Unit: "deg"},
		{Label: "fall height", Value: p.FallHeight, Unit: "m"},
		{Label: "takeoff speed", Value: o.TakeoffSpeed, Unit: "m/s"},
		{Label: "flight time", Value: o.FlightTime, Unit: "s"},
		{Label: "flight distance", Value: o.FlightDistance, Unit: "m"},
		{Label: "flight height", Value: o.FlightHeight, Unit: "m"},
		{Label: "peak flight speed", Value: o.PeakSpeed, Unit: "m/s"},
		{Label: "drag loss", Value: o.DragLoss, Unit: "J"},
		{Label: "snow budget", Value: o.SnowBudget, Unit: "m²"},
	})
}

// designSeries splits the archived profile at segment changes and adds the
// flight path as a dotted series.
func designSeries(rec *storage.Record) []viz.Series {
	var series []viz.Series
	var cur viz.Series
	segment := ""
	for _, r := range rec.Profile {
		if r.Segment != segment && len(cur.X) > 0 {
			series = append(series, cur)
			cur = viz.Series{}
		}
		segment = r.Segment
		cur.X = append(cur.X, r.X)
		cur.Y = append(cur.Y, r.Y)
	}
	if len(cur.X) > 0 {
		series = append(series, cur)
	}

	flight := viz.Series{Dotted: true}
	for _, r := range rec.Flight {
		flight.X = append(flight.X, r.X)
		flight.Y = append(flight.Y, r.Y)
	}
	return append(series, flight)
}

func flightSpeed(rec *storage.Record) []float64 {
	speed := make([]float64, len(rec.Flight))
	for i, r := range rec.Flight {
		speed[i] = math.Hypot(r.VX, r.VY)
	}
	return speed
}
