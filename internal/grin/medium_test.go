package grin_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/grinprobe/internal/grin"
)

var _ = Describe("Evaluate", func() {
	coef := []float64{0.9, 1.5}

	DescribeTable("radial symmetry",
		func(p grin.Vec3) {
			n1, g1, c1 := grin.Evaluate(1.6, coef, p)
			n2, g2, c2 := grin.Evaluate(1.6, coef, grin.Vec3{X: -p.X, Y: -p.Y, Z: p.Z})

			Expect(c1).To(Equal(grin.OK))
			Expect(c2).To(Equal(grin.OK))
			Expect(n2).To(Equal(n1))
			Expect(g2.X).To(Equal(-g1.X))
			Expect(g2.Y).To(Equal(-g1.Y))
			Expect(g2.Z).To(BeZero())
		},
		Entry("first quadrant", grin.Vec3{X: 0.3, Y: 0.4, Z: 2}),
		Entry("on x axis", grin.Vec3{X: 2.5, Y: 0, Z: -1}),
		Entry("far field", grin.Vec3{X: -7, Y: 11, Z: 0}),
	)

	It("is idempotent to the bit", func() {
		p := grin.Vec3{X: 0.123, Y: -4.56, Z: 7.89}
		n1, g1, c1 := grin.Evaluate(1.5, coef, p)
		n2, g2, c2 := grin.Evaluate(1.5, coef, p)

		Expect(math.Float64bits(n1)).To(Equal(math.Float64bits(n2)))
		Expect(math.Float64bits(g1.X)).To(Equal(math.Float64bits(g2.X)))
		Expect(math.Float64bits(g1.Y)).To(Equal(math.Float64bits(g2.Y)))
		Expect(c1).To(Equal(c2))
	})

	It("does not depend on z", func() {
		n1, g1, _ := grin.Evaluate(1.5, coef, grin.Vec3{X: 1, Y: 1, Z: -100})
		n2, g2, _ := grin.Evaluate(1.5, coef, grin.Vec3{X: 1, Y: 1, Z: 100})
		Expect(n1).To(Equal(n2))
		Expect(g1).To(Equal(g2))
	})

	It("keeps the index non-negative for a non-negative base", func() {
		for r := 0.0; r < 40; r += 0.5 {
			n, _, code := grin.Evaluate(1.5, []float64{3, 1}, grin.Vec3{X: r})
			Expect(code).To(Equal(grin.OK))
			Expect(n).To(BeNumerically(">=", 0))
		}
	})
})

var _ = Describe("Luneberg", func() {
	var l *grin.Luneberg

	BeforeEach(func() {
		l = grin.NewLuneberg(1.5, 1.0, 5.0)
	})

	It("matches the callback", func() {
		p := grin.Vec3{X: 1, Y: 2, Z: 3}
		s, err := l.At(p)
		Expect(err).NotTo(HaveOccurred())

		n, ng, code := grin.Evaluate(1.5, l.Coef(), p)
		Expect(s.Index).To(Equal(n))
		Expect(s.NGradN).To(Equal(ng))
		Expect(s.Code).To(Equal(code))
		Expect(s.Pos).To(Equal(p))
	})

	It("wraps domain errors", func() {
		l.C1 = math.NaN()
		s, err := l.At(grin.Vec3{X: 1})
		Expect(err).To(MatchError(grin.ErrDomain))
		Expect(s.Code).To(Equal(grin.DomainError))
		Expect(grin.CodeOf(err)).To(Equal(grin.DomainError))
	})

	It("round-trips parameters", func() {
		Expect(l.SetParam("c1", 0.25)).To(Succeed())
		Expect(l.SetParam("c2", 2)).To(Succeed())
		Expect(l.SetParam("base", 1.7)).To(Succeed())
		Expect(l.Params()).To(Equal(map[string]float64{"base": 1.7, "c1": 0.25, "c2": 2}))
		Expect(l.SetParam("c3", 1)).To(MatchError(grin.ErrUnknownParam))
	})

	It("rejects non-finite parameters", func() {
		Expect(l.Validate()).To(Succeed())
		l.C2 = math.Inf(-1)
		Expect(l.Validate()).To(MatchError(grin.ErrParameter))
	})
})

var _ = Describe("Uniform", func() {
	It("has a flat index and no gradient", func() {
		u := grin.NewUniform(1.33)
		s, err := u.At(grin.Vec3{X: 4, Y: -2, Z: 9})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Index).To(Equal(1.33))
		Expect(s.NGradN).To(Equal(grin.Vec3{}))
	})
})

var _ = Describe("ErrorCode", func() {
	It("maps to sentinel errors", func() {
		Expect(grin.OK.Err()).To(Succeed())
		Expect(grin.DomainError.Err()).To(MatchError(grin.ErrDomain))
		Expect(grin.ErrorCode(7).Err()).To(HaveOccurred())
		Expect(grin.CodeOf(nil)).To(Equal(grin.OK))
		Expect(grin.DomainError.String()).To(Equal("domain_error"))
	})
})
