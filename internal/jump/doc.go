// Package jump designs equivalent fall height ski jumps.
//
// [MakeJump] builds, in order, the approach on the parent slope, the
// takeoff ramp, the flight from the takeoff, the landing transition back
// into the parent slope and the landing surface between takeoff and
// transition, then flies the skier onto the finished profile:
//
//	design, err := jump.MakeJump(ctx, jump.Params{
//	    SlopeAngle:   -15,
//	    ApproachLen:  40,
//	    TakeoffAngle: 25,
//	    FallHeight:   0.5,
//	}, jump.DefaultOptions())
//
// Parameter sets that admit no jump fail with an error matching
// [dynamo.ErrInfeasible].
package jump
