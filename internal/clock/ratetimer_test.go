package clock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simscope/internal/clock"
)

var _ = Describe("RateTimer", func() {
	var (
		now   time.Time
		timer *clock.RateTimer
	)

	advance := func(d time.Duration) {
		now = now.Add(d)
	}

	BeforeEach(func() {
		now = time.Unix(1000, 0)
		timer = clock.NewWithNow(func() time.Time { return now })
	})

	It("starts stopped at rate 1 with zero elapsed", func() {
		Expect(timer.Running()).To(BeFalse())
		Expect(timer.Rate()).To(Equal(1.0))
		Expect(timer.Elapsed()).To(BeZero())
	})

	It("does not accumulate while stopped", func() {
		advance(5 * time.Second)
		Expect(timer.Elapsed()).To(BeZero())
	})

	DescribeTable("accumulates wall time scaled by the rate",
		func(rate float64, wall time.Duration, want float64) {
			timer.SetRate(rate)
			timer.Start()
			advance(wall)
			Expect(timer.Elapsed()).To(BeNumerically("~", want, 1e-9))
		},
		Entry("real time", 1.0, 2*time.Second, 2.0),
		Entry("double speed", 2.0, 1500*time.Millisecond, 3.0),
		Entry("half speed", 0.5, 2*time.Second, 1.0),
		Entry("reverse", -1.0, 3*time.Second, -3.0),
		Entry("fast reverse", -4.0, time.Second, -4.0),
	)

	It("treats repeated Start as a no-op", func() {
		timer.Start()
		advance(time.Second)
		timer.Start()
		advance(time.Second)
		Expect(timer.Elapsed()).To(BeNumerically("~", 2.0, 1e-9))
	})

	It("treats repeated Stop as a no-op", func() {
		timer.Start()
		advance(time.Second)
		timer.Stop()
		timer.Stop()
		advance(time.Second)
		Expect(timer.Elapsed()).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("freezes elapsed across a stop/start cycle", func() {
		timer.Start()
		advance(time.Second)
		timer.Stop()
		advance(10 * time.Second)
		timer.Start()
		advance(time.Second)
		Expect(timer.Elapsed()).To(BeNumerically("~", 2.0, 1e-9))
	})

	Describe("SetRate", func() {
		It("keeps already-accumulated time at the old rate", func() {
			timer.SetRate(2.0)
			timer.Start()
			advance(time.Second)
			timer.SetRate(0.5)
			Expect(timer.Elapsed()).To(BeNumerically("~", 2.0, 1e-9))
			advance(2 * time.Second)
			Expect(timer.Elapsed()).To(BeNumerically("~", 3.0, 1e-9))
		})

		It("flips direction without losing progress", func() {
			timer.Start()
			advance(time.Second)
			timer.SetRate(-1.0)
			advance(500 * time.Millisecond)
			Expect(timer.Elapsed()).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("applies to a stopped timer without accumulating", func() {
			timer.SetRate(3.0)
			advance(time.Second)
			Expect(timer.Elapsed()).To(BeZero())
			timer.Start()
			advance(time.Second)
			Expect(timer.Elapsed()).To(BeNumerically("~", 3.0, 1e-9))
		})
	})

	Describe("Reset", func() {
		It("zeroes elapsed regardless of prior state", func() {
			timer.SetRate(2.0)
			timer.Start()
			advance(4 * time.Second)
			timer.Reset()
			Expect(timer.Elapsed()).To(BeZero())
		})

		It("preserves running state and rate", func() {
			timer.SetRate(2.0)
			timer.Start()
			advance(time.Second)
			timer.Reset()
			Expect(timer.Running()).To(BeTrue())
			Expect(timer.Rate()).To(Equal(2.0))
			advance(time.Second)
			Expect(timer.Elapsed()).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("leaves a stopped timer stopped", func() {
			timer.Start()
			advance(time.Second)
			timer.Stop()
			timer.Reset()
			Expect(timer.Running()).To(BeFalse())
			advance(time.Second)
			Expect(timer.Elapsed()).To(BeZero())
		})
	})
})
