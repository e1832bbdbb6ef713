package metrics

import (
	"math"

	"github.com/san-kum/skijump/internal/dynamo"
)

// EnergyLoss is the largest drop of the system energy (J) below its first
// observed value. Over a flight it is the work done by air drag. Systems
// without an energy function report zero.
type EnergyLoss struct {
	initial float64
	loss    float64
	samples int
	dyn     dynamo.System
}

func NewEnergyLoss(dyn dynamo.System) *EnergyLoss {
	return &EnergyLoss{dyn: dyn}
}

func (e *EnergyLoss) Name() string { return "energy_loss" }

func (e *EnergyLoss) Observe(x dynamo.State, t float64) {
	h, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	e.loss = math.Max(e.loss, e.initial-energy)
}

func (e *EnergyLoss) Value() float64 {
	return e.loss
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.loss = 0
	e.samples = 0
}
