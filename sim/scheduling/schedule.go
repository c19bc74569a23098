// Package scheduling keeps the events that are waiting to fire and decides
// when, and how often, each of them fires.
package scheduling

import (
	"errors"
	"fmt"

	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/timer"
)

// ErrCannotFireEvent is returned when a schedule would never fire, such as a
// Repeat with a zero count.
var ErrCannotFireEvent = errors.New("cannot fire the event")

// A Schedule decides the delay before an event fires and whether it recurs
// after firing. The schedules are Immediate, Timeout, Everytime,
// EveryInterval, and Repeat.
type Schedule interface {
	fmt.Stringer

	// InitialDelay draws the number of ticks until the event fires.
	InitialDelay(src rng.Source) (timer.LocalTime, error)

	// Next returns the schedule to use after the event fires, or false if the
	// event does not recur.
	Next() (Schedule, bool)

	isSchedule()
}

// Immediate fires on the next tick and does not recur.
type Immediate struct{}

// InitialDelay is always one tick.
func (Immediate) InitialDelay(_ rng.Source) (timer.LocalTime, error) {
	return 1, nil
}

// Next never recurs.
func (Immediate) Next() (Schedule, bool) {
	return nil, false
}

func (Immediate) String() string {
	return "immediate"
}

func (Immediate) isSchedule() {}

// Timeout fires once after a sampled delay.
type Timeout struct {
	Timer timer.Timer
}

// InitialDelay samples the timer.
func (s Timeout) InitialDelay(src rng.Source) (timer.LocalTime, error) {
	return s.Timer.Sample(src)
}

// Next never recurs.
func (Timeout) Next() (Schedule, bool) {
	return nil, false
}

func (s Timeout) String() string {
	return fmt.Sprintf("timeout(%s)", s.Timer)
}

func (Timeout) isSchedule() {}

// Everytime fires on every tick, forever.
type Everytime struct{}

// InitialDelay is always one tick.
func (Everytime) InitialDelay(_ rng.Source) (timer.LocalTime, error) {
	return 1, nil
}

// Next always recurs.
func (s Everytime) Next() (Schedule, bool) {
	return s, true
}

func (Everytime) String() string {
	return "everytime"
}

func (Everytime) isSchedule() {}

// EveryInterval fires after a sampled delay and recurs forever, drawing a new
// delay each time.
type EveryInterval struct {
	Timer timer.Timer
}

// InitialDelay samples the timer.
func (s EveryInterval) InitialDelay(src rng.Source) (timer.LocalTime, error) {
	return s.Timer.Sample(src)
}

// Next always recurs with the same timer.
func (s EveryInterval) Next() (Schedule, bool) {
	return s, true
}

func (s EveryInterval) String() string {
	return fmt.Sprintf("every_interval(%s)", s.Timer)
}

func (EveryInterval) isSchedule() {}

// Repeat fires Count times in total, drawing a new delay before each fire.
type Repeat struct {
	Count uint32
	Timer timer.Timer
}

// InitialDelay samples the timer. A zero count is rejected with
// ErrCannotFireEvent.
func (s Repeat) InitialDelay(src rng.Source) (timer.LocalTime, error) {
	if s.Count == 0 {
		return 0, ErrCannotFireEvent
	}

	return s.Timer.Sample(src)
}

// Next recurs with one less repetition while more than one remains.
func (s Repeat) Next() (Schedule, bool) {
	if s.Count <= 1 {
		return nil, false
	}

	return Repeat{Count: s.Count - 1, Timer: s.Timer}, true
}

func (s Repeat) String() string {
	return fmt.Sprintf("repeat(%d, %s)", s.Count, s.Timer)
}

func (Repeat) isSchedule() {}
