package scheduling

import (
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/timer"
)

// Priority breaks ties between events that fire on the same tick. Lower
// values fire first.
type Priority uint8

const (
	// PriorityHighest is dispatched before every other priority.
	PriorityHighest Priority = 0

	// PriorityLowest is dispatched after every other priority.
	PriorityLowest Priority = math.MaxUint8
)

// An Entry is an event waiting in the scheduler.
type Entry[E any] struct {
	Remaining timer.LocalTime
	Schedule  Schedule
	Priority  Priority
	Event     E
}

// Fired is an event that fired on the current tick.
type Fired[E any] struct {
	Priority Priority
	Event    E
}

// EventScheduler stores pending events ordered by remaining ticks and then
// by priority. Events with the same remaining ticks and priority keep the
// order in which they were scheduled.
//
// An EventScheduler is owned by a single simulation and is not safe for
// concurrent use.
type EventScheduler[E any] struct {
	entries []Entry[E]
}

// NewEventScheduler creates an empty EventScheduler.
func NewEventScheduler[E any]() *EventScheduler[E] {
	return &EventScheduler[E]{}
}

// HasPending tells if any event is waiting to fire.
func (s *EventScheduler[E]) HasPending() bool {
	return len(s.entries) > 0
}

// PendingCount returns the number of events waiting to fire.
func (s *EventScheduler[E]) PendingCount() int {
	return len(s.entries)
}

// Entries returns a copy of the pending events in firing order.
func (s *EventScheduler[E]) Entries() []Entry[E] {
	entries := make([]Entry[E], len(s.entries))
	copy(entries, s.entries)

	return entries
}

// NextFireIn returns the remaining ticks of the earliest pending event.
func (s *EventScheduler[E]) NextFireIn() (timer.LocalTime, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}

	return s.entries[0].Remaining, true
}

// Clear drops every pending event.
func (s *EventScheduler[E]) Clear() {
	s.entries = nil
}

// RemoveWhen drops the pending events for which predicate returns true.
func (s *EventScheduler[E]) RemoveWhen(predicate func(Entry[E]) bool) {
	s.entries = slices.DeleteFunc(s.entries, predicate)
}

// Retain keeps only the pending events for which predicate returns true.
func (s *EventScheduler[E]) Retain(predicate func(Entry[E]) bool) {
	s.entries = slices.DeleteFunc(s.entries, func(e Entry[E]) bool {
		return !predicate(e)
	})
}

// Schedule adds an event that fires according to schedule. A delay of zero
// fires on the next tick, like a delay of one.
func (s *EventScheduler[E]) Schedule(
	src rng.Source,
	schedule Schedule,
	priority Priority,
	event E,
) error {
	delay, err := schedule.InitialDelay(src)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", schedule, err)
	}

	// The earliest an event can fire is the next tick.
	delay = max(delay, 1)

	index := 0
	for _, e := range s.entries {
		if e.Remaining > delay ||
			(e.Remaining == delay && e.Priority > priority) {
			break
		}

		index++
	}

	s.entries = slices.Insert(s.entries, index, Entry[E]{
		Remaining: delay,
		Schedule:  schedule,
		Priority:  priority,
		Event:     event,
	})

	return nil
}

// ScheduleWhen schedules the event only if predicate accepts the current
// state of the scheduler.
func (s *EventScheduler[E]) ScheduleWhen(
	src rng.Source,
	schedule Schedule,
	priority Priority,
	event E,
	predicate func(*EventScheduler[E]) bool,
) error {
	if !predicate(s) {
		return nil
	}

	return s.Schedule(src, schedule, priority, event)
}

// Immediate schedules an event that fires on the next tick.
func (s *EventScheduler[E]) Immediate(
	src rng.Source,
	priority Priority,
	event E,
) error {
	return s.Schedule(src, Immediate{}, priority, event)
}

// Timeout schedules an event that fires once after t.
func (s *EventScheduler[E]) Timeout(
	src rng.Source,
	t timer.Timer,
	priority Priority,
	event E,
) error {
	return s.Schedule(src, Timeout{Timer: t}, priority, event)
}

// Everytime schedules an event that fires on every tick.
func (s *EventScheduler[E]) Everytime(
	src rng.Source,
	priority Priority,
	event E,
) error {
	return s.Schedule(src, Everytime{}, priority, event)
}

// EveryInterval schedules an event that fires repeatedly, every t.
func (s *EventScheduler[E]) EveryInterval(
	src rng.Source,
	t timer.Timer,
	priority Priority,
	event E,
) error {
	return s.Schedule(src, EveryInterval{Timer: t}, priority, event)
}

// Repeat schedules an event that fires count times, every t.
func (s *EventScheduler[E]) Repeat(
	src rng.Source,
	count uint32,
	t timer.Timer,
	priority Priority,
	event E,
) error {
	return s.Schedule(src, Repeat{Count: count, Timer: t}, priority, event)
}

// AdvanceAndFire moves time forward by one tick and returns the events that
// fire on this tick, ordered by priority and then by scheduling order.
// Recurring events are scheduled again with a newly drawn delay.
func (s *EventScheduler[E]) AdvanceAndFire(src rng.Source) []Fired[E] {
	due := 0

	for i := range s.entries {
		if s.entries[i].Remaining > 0 {
			s.entries[i].Remaining--
		}

		if s.entries[i].Remaining == 0 {
			due++
		}
	}

	if due == 0 {
		return nil
	}

	firing := make([]Entry[E], due)
	copy(firing, s.entries[:due])
	s.entries = slices.Delete(s.entries, 0, due)

	fired := make([]Fired[E], 0, due)

	for _, e := range firing {
		fired = append(fired, Fired[E]{Priority: e.Priority, Event: e.Event})

		next, ok := e.Schedule.Next()
		if !ok {
			continue
		}

		err := s.Schedule(src, next, e.Priority, e.Event)
		if err != nil {
			log.Panicf("rescheduling a fired event failed: %v", err)
		}
	}

	return fired
}
