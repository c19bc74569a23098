package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/config"
	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/scheduling"
	"github.com/sarchlab/framesim/sim/timer"
)

const sampleScenario = `
name: demo
walkers:
  - name: first
    schedule: immediate
  - schedule: everytime
    priority: 3
  - schedule: timeout
    timer:
      fixed: 4
  - schedule: every_interval
    timer:
      uniform: {lo: 1, hi: 5, inclusive: true}
  - schedule: repeat
    count: 3
    timer:
      weighted:
        - {value: 5, weight: 3}
        - {value: 10, weight: 1}
`

var _ = Describe("Scenario", func() {
	It("should parse every kind of schedule", func() {
		s, err := config.ParseScenario(strings.NewReader(sampleScenario))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Name).To(Equal("demo"))
		Expect(s.Walkers).To(HaveLen(5))
		Expect(s.Walkers[1].Priority).To(Equal(uint8(3)))

		schedules := []scheduling.Schedule{}
		for _, w := range s.Walkers {
			schedule, err := w.Build()
			Expect(err).NotTo(HaveOccurred())

			schedules = append(schedules, schedule)
		}

		Expect(schedules).To(Equal([]scheduling.Schedule{
			scheduling.Immediate{},
			scheduling.Everytime{},
			scheduling.Timeout{Timer: timer.Fixed(4)},
			scheduling.EveryInterval{Timer: timer.UniformInclusive(1, 5)},
			scheduling.Repeat{Count: 3, Timer: timer.Weighted(
				timer.Choice{Value: 5, Weight: 3},
				timer.Choice{Value: 10, Weight: 1},
			)},
		}))
	})

	It("should name walkers", func() {
		s, err := config.ParseScenario(strings.NewReader(sampleScenario))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Walkers[0].DisplayName()).To(Equal("first"))
		Expect(s.Walkers[2].DisplayName()).To(Equal("timeout(fixed(4))"))
	})

	It("should load a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "scenario.yaml")
		Expect(os.WriteFile(path, []byte(sampleScenario), 0o600)).
			To(Succeed())

		s, err := config.LoadScenario(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Walkers).To(HaveLen(5))
	})

	It("should fail on a missing file", func() {
		_, err := config.LoadScenario(
			filepath.Join(GinkgoT().TempDir(), "none.yaml"))

		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("should reject unknown fields", func() {
		_, err := config.ParseScenario(strings.NewReader(`
walkers:
  - schedule: immediate
    colour: red
`))

		Expect(err).To(HaveOccurred())
	})

	DescribeTable("invalid walkers",
		func(yaml string, cause error) {
			_, err := config.ParseScenario(strings.NewReader(yaml))

			Expect(errors.Is(err, config.ErrInvalidScenario)).To(BeTrue())

			if cause != nil {
				Expect(errors.Is(err, cause)).To(BeTrue())
			}
		},
		Entry("no walker", "name: empty\n", nil),
		Entry("unknown kind",
			"walkers:\n  - schedule: sometimes\n", nil),
		Entry("timer on immediate",
			"walkers:\n  - schedule: immediate\n    timer: {fixed: 1}\n", nil),
		Entry("missing timer",
			"walkers:\n  - schedule: timeout\n", nil),
		Entry("count outside repeat",
			"walkers:\n  - schedule: timeout\n    count: 2\n"+
				"    timer: {fixed: 1}\n", nil),
		Entry("zero repeat",
			"walkers:\n  - schedule: repeat\n    timer: {fixed: 1}\n",
			scheduling.ErrCannotFireEvent),
		Entry("two timers",
			"walkers:\n  - schedule: timeout\n"+
				"    timer: {fixed: 1, uniform: {lo: 1, hi: 2}}\n", nil),
		Entry("empty uniform range",
			"walkers:\n  - schedule: timeout\n"+
				"    timer: {uniform: {lo: 3, hi: 3}}\n",
			timer.ErrEmptyRange),
		Entry("zero weights",
			"walkers:\n  - schedule: timeout\n"+
				"    timer: {weighted: [{value: 1, weight: 0}]}\n",
			rng.ErrAllWeightsZero),
	)
})
