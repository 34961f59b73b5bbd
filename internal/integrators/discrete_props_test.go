package integrators

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func runningSums(dt float64, samples []float64) []float64 {
	sums := make([]float64, len(samples)+1)
	for i, s := range samples {
		sums[i+1] = sums[i] + dt*s
	}
	return sums
}

var _ = Describe("Discrete", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	DescribeTable("the (n+1)-th output equals the scaled sum of the first n samples",
		func(dt float64, n int) {
			samples := make([]float64, n)
			for i := range samples {
				samples[i] = (rng.Float64() - 0.5) * 200
			}

			integ := NewDiscrete(Config{TimeStep: dt})
			integ.Initialize()
			for _, s := range samples {
				integ.Step(Sample{Value: s})
			}
			out := integ.Step(Sample{Value: 0})

			want := runningSums(dt, samples)[n]
			Expect(out.Value).To(BeNumerically("~", want, 1e-9*math.Max(1, math.Abs(want))))
		},
		Entry("gyro tick, short run", 0.01, 3),
		Entry("gyro tick, long run", 0.01, 5000),
		Entry("coarse tick", 0.5, 100),
		Entry("fine tick", 1e-4, 1000),
		Entry("single sample", 2.0, 1),
		Entry("no samples", 0.01, 0),
	)

	It("lags its internal state by exactly one tick", func() {
		integ := NewGyroX()
		integ.Initialize()
		for k := 0; k < 200; k++ {
			before := integ.Value()
			out := integ.Step(Sample{Value: rng.NormFloat64()})
			Expect(out.Value).To(Equal(before))
		}
	})

	It("treats a double Initialize like a single one", func() {
		once := NewGyroX()
		twice := NewGyroX()
		for i := 0; i < 10; i++ {
			once.Step(Sample{Value: 3})
			twice.Step(Sample{Value: 7})
		}
		once.Initialize()
		twice.Initialize()
		twice.Initialize()

		Expect(twice.Value()).To(Equal(once.Value()))
		for i := 0; i < 10; i++ {
			s := Sample{Value: float64(i)}
			Expect(twice.Step(s)).To(Equal(once.Step(s)))
		}
	})

	It("behaves identically across a Terminate/Initialize cycle", func() {
		integ := NewGyroX()
		integ.Initialize()
		integ.Step(Sample{Value: 42})
		integ.Terminate()
		integ.Initialize()

		fresh := NewGyroX()
		fresh.Initialize()
		for i := 0; i < 5; i++ {
			s := Sample{Value: float64(i) * 1.5}
			Expect(integ.Step(s)).To(Equal(fresh.Step(s)))
		}
	})

	It("stays finite for finite inputs and a finite positive step", func() {
		integ := NewDiscrete(Config{TimeStep: 0.01})
		for i := 0; i < 10000; i++ {
			out := integ.Step(Sample{Value: (rng.Float64() - 0.5) * 1e3})
			Expect(math.IsNaN(out.Value) || math.IsInf(out.Value, 0)).To(BeFalse())
		}
	})

	Context("with a NaN sample", func() {
		It("poisons every later output until Initialize", func() {
			integ := NewGyroX()
			integ.Initialize()
			integ.Step(Sample{Value: 1})
			integ.Step(Sample{Value: math.NaN()})

			for i := 0; i < 20; i++ {
				Expect(math.IsNaN(integ.Step(Sample{Value: 1}).Value)).To(BeTrue())
			}

			integ.Initialize()
			Expect(integ.Step(Sample{Value: 1}).Value).To(BeZero())
		})
	})
})
