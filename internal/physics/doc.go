// Package physics provides the skier dynamics used to design jumps.
//
// A [Skier] carries the body parameters and force laws. Its models
// implement [dynamo.System]:
//
//   - [FlightModel]: projectile with quadratic drag, state [x y vx vy]
//   - [SlideModel]: motion along a surface with drag and friction, state [x v]
//
// On top of the models the skier answers the design questions: where a
// flight lands ([Skier.FlyTo]), how fast it leaves a surface
// ([Skier.SlideOn]), which launch speed reaches a given landing point
// ([Skier.SpeedToLandAt]) and the equivalent fall height along a landing
// surface ([Skier.CalculateEFH]).
//
// Every failure that means "no jump exists for these inputs" matches
// [dynamo.ErrInfeasible]:
//
//	_, err := skier.SlideOn(approach, 0)
//	if errors.Is(err, dynamo.ErrInfeasible) {
//	    // try other parameters
//	}
package physics
