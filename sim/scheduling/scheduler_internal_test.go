package scheduling

import (
	"errors"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/timer"
)

// flakySchedule can be scheduled once and fails on every later attempt.
type flakySchedule struct {
	calls *int
}

func (s flakySchedule) InitialDelay(_ rng.Source) (timer.LocalTime, error) {
	*s.calls++
	if *s.calls > 1 {
		return 0, errors.New("broken")
	}

	return 1, nil
}

func (s flakySchedule) Next() (Schedule, bool) {
	return s, true
}

func (flakySchedule) String() string {
	return "flaky"
}

func (flakySchedule) isSchedule() {}

var _ = ginkgo.Describe("EventScheduler internals", func() {
	ginkgo.It("should panic if a fired event cannot be rescheduled", func() {
		calls := 0
		s := NewEventScheduler[int]()
		src := rng.New(1)

		Expect(s.Schedule(src, flakySchedule{calls: &calls}, 0, 1)).
			To(Succeed())

		Expect(func() { s.AdvanceAndFire(src) }).To(Panic())
	})
})
