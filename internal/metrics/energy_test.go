package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/physics"
	"github.com/san-kum/skijump/internal/surface"
)

func TestEnergyLoss_Conserved(t *testing.T) {
	s := physics.NewSkier()
	s.Area = 0
	m := NewEnergyLoss(s.FlightModel())

	// same total energy at two heights
	m.Observe(dynamo.State{0, 10, 3, 0}, 0)
	v := math.Sqrt(9 + 2*physics.Gravity*5)
	m.Observe(dynamo.State{1, 5, 3, -math.Sqrt(v*v - 9)}, 1)

	if m.Value() > 1e-9 {
		t.Errorf("expected no loss, got %g", m.Value())
	}
}

func TestEnergyLoss_Reset(t *testing.T) {
	s := physics.NewSkier()
	m := NewEnergyLoss(s.FlightModel())

	m.Observe(dynamo.State{0, 10, 3, 0}, 0)
	m.Observe(dynamo.State{0, 5, 3, 0}, 1)
	if got, want := m.Value(), s.Mass*physics.Gravity*5; math.Abs(got-want) > 1e-9 {
		t.Errorf("loss = %f, want %f", got, want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero loss after reset")
	}
}

func TestEnergyLoss_DragFlight(t *testing.T) {
	s := physics.NewSkier()
	ground, err := surface.NewHorizontal(-1, 100, 0, 0)
	if err != nil {
		t.Fatalf("NewHorizontal failed: %v", err)
	}
	tr, err := s.FlyTo(ground, [2]float64{0, 2}, [2]float64{15, 3}, physics.DefaultFlightOptions())
	if err != nil {
		t.Fatalf("FlyTo failed: %v", err)
	}

	loss := Collect(tr, NewEnergyLoss(s.FlightModel()))["energy_loss"]
	if !(loss > 0) {
		t.Errorf("drag flight lost %g J, want positive", loss)
	}
	start, end := tr.Start(), tr.End()
	ke := 0.5 * s.Mass * (start.Speed*start.Speed - end.Speed*end.Speed)
	pe := s.Mass * physics.Gravity * (start.Y - end.Y)
	if math.Abs(loss-(ke+pe)) > 1e-6*(ke+pe) {
		t.Errorf("loss = %f, want %f", loss, ke+pe)
	}
}

type notHamiltonian struct{}

func (notHamiltonian) StateDim() int                                 { return 4 }
func (notHamiltonian) Derive(x dynamo.State, t float64) dynamo.State { return x }

func TestEnergyLoss_IgnoresNonHamiltonian(t *testing.T) {
	m := NewEnergyLoss(notHamiltonian{})
	m.Observe(dynamo.State{0, 10, 3, 0}, 0)
	m.Observe(dynamo.State{0, 0, 3, 0}, 1)
	if m.Value() != 0 {
		t.Errorf("expected zero loss, got %g", m.Value())
	}
}
