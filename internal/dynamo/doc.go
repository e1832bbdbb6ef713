// Package dynamo provides the numeric primitives shared by the jump design
// engine.
//
// The package defines:
//
//   - [State]: vector representing an ODE state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [InfeasibleError]: the single error taxonomy for designs that cannot
//     be built, matched through [ErrInfeasible]
//
// # Example
//
//	model := skier.FlightModel()
//	sol, err := integrators.NewRK45().Solve(model, [2]float64{0, 30}, x0, opts)
//	if errors.Is(err, dynamo.ErrInfeasible) {
//		// ask the user for other parameters
//	}
//
// # Thread Safety
//
// Values in this package are plain data. Systems implemented elsewhere are
// read-only during integration, so one System may back concurrent solves.
package dynamo
