package jump_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/jump"
)

var _ = Describe("MakeJump", func() {
	Context("for a 0.5 m fall height on a 15 degree slope", Ordered, func() {
		var design *jump.Design

		BeforeAll(func() {
			var err error
			design, err = jump.MakeJump(context.Background(), jump.Params{
				SlopeAngle:   -15,
				StartPos:     0,
				ApproachLen:  40,
				TakeoffAngle: 25,
				FallHeight:   0.5,
			}, jump.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports finite positive outputs", func() {
			out := design.Outputs
			for _, v := range []float64{out.TakeoffSpeed, out.FlightTime, out.FlightDistance, out.FlightHeight, out.SnowBudget, out.DragLoss} {
				Expect(math.IsNaN(v)).To(BeFalse())
				Expect(v).To(BeNumerically(">", 0))
			}
			Expect(out.PeakSpeed).To(BeNumerically(">=", out.TakeoffSpeed-1e-9))
		})

		It("chains the surfaces end to end", func() {
			Expect(design.Takeoff.Start().X).To(BeNumerically("~", design.Approach.End().X, 1e-9))
			Expect(design.Landing.Start().X).To(BeNumerically("~", design.Takeoff.End().X, 1e-9))
			Expect(design.Landing.End().X).To(BeNumerically("~", design.Transition.Start().X, 1e-9))
			Expect(design.Landing.End().Y).To(BeNumerically("~", design.Transition.Start().Y, 1e-6))
		})

		It("keeps the landing surface on or above the parent slope", func() {
			for _, h := range design.Landing.HeightAbove(design.Slope) {
				Expect(h).To(BeNumerically(">=", 0))
			}
		})

		It("starts the flight at the takeoff lip", func() {
			lip := design.Takeoff.End()
			start := design.Flight.Start()
			Expect(start.X).To(BeNumerically("~", lip.X, 1e-12))
			Expect(start.Y).To(BeNumerically("~", lip.Y, 1e-12))
			Expect(start.Speed).To(BeNumerically("~", design.Outputs.TakeoffSpeed, 1e-9))
		})

		It("holds the equivalent fall height along the landing surface", func() {
			efh, err := design.LandingEFH(nil, 0.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(efh.Height)).To(BeNumerically(">", 2))
			Expect(efh.Height[0]).To(BeNumerically("~", 0, 1e-12))

			for i := 1; i < len(efh.Height); i++ {
				if math.IsNaN(efh.Height[i]) {
					continue
				}
				Expect(efh.Height[i]).To(BeNumerically("~", 0.5, 0.05), "x=%.2f", efh.X[i])
			}
		})
	})

	DescribeTable("equivalent fall height across geometries",
		func(p jump.Params, step float64) {
			design, err := jump.MakeJump(context.Background(), p, jump.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())

			efh, err := design.LandingEFH(nil, step)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(efh.Height)).To(BeNumerically(">", 2))

			checked := 0
			for i := 1; i < len(efh.Height); i++ {
				if math.IsNaN(efh.Height[i]) {
					continue
				}
				checked++
				Expect(efh.Height[i]).To(BeNumerically("~", p.FallHeight, 0.05), "x=%.2f", efh.X[i])
			}
			Expect(checked).To(BeNumerically(">", 0))
		},
		Entry("steep slope, small fall height", jump.Params{SlopeAngle: -35, ApproachLen: 60, TakeoffAngle: 30, FallHeight: 0.25}, 0.5),
		Entry("long approach, 1 m fall height", jump.Params{SlopeAngle: -20, ApproachLen: 60, TakeoffAngle: 30, FallHeight: 1.0}, 0.5),
	)

	DescribeTable("infeasible designs",
		func(p jump.Params) {
			_, err := jump.MakeJump(context.Background(), p, jump.DefaultOptions())
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dynamo.ErrInfeasible)).To(BeTrue(), "error: %v", err)
		},
		Entry("fall height too large for the geometry", jump.Params{SlopeAngle: -15, ApproachLen: 30, TakeoffAngle: 15, FallHeight: 2.7}),
		Entry("approach too short", jump.Params{SlopeAngle: -30, ApproachLen: 1, TakeoffAngle: 45, FallHeight: 0.5}),
		Entry("takeoff below the slope", jump.Params{SlopeAngle: -15, ApproachLen: 40, TakeoffAngle: -20, FallHeight: 0.5}),
		Entry("vertical takeoff", jump.Params{SlopeAngle: -15, ApproachLen: 40, TakeoffAngle: 90, FallHeight: 0.5}),
		Entry("zero fall height", jump.Params{SlopeAngle: -15, ApproachLen: 40, TakeoffAngle: 25, FallHeight: 0}),
		Entry("zero approach", jump.Params{SlopeAngle: -15, ApproachLen: 0, TakeoffAngle: 25, FallHeight: 0.5}),
	)

	It("blames the sliding skier when the approach is too short", func() {
		_, err := jump.MakeJump(context.Background(), jump.Params{
			SlopeAngle:   -30,
			ApproachLen:  1,
			TakeoffAngle: 45,
			FallHeight:   0.5,
		}, jump.DefaultOptions())
		Expect(err).To(MatchError(ContainSubstring("insufficient speed to traverse surface")))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := jump.MakeJump(ctx, jump.Params{
			SlopeAngle:   -15,
			ApproachLen:  40,
			TakeoffAngle: 25,
			FallHeight:   0.5,
		}, jump.DefaultOptions())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})
