// Package simulation runs a model frame by frame against an event scheduler.
//
// Every frame follows the same order: the model's StartFrame, the optional
// BeforeFire, one tick of the scheduler, the dispatch of the fired events,
// the optional AfterFire, and finally FinishFrame. A model picks how fired
// events are delivered by implementing exactly one of BulkEvents, EachEvent,
// or EachEventWithEnd.
package simulation

import (
	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/scheduling"
)

// A Model is the user-defined state that reacts to fired events. R is the
// recorder type and E is the event type. The simulator never looks into
// either of them.
type Model[R, E any] interface {
	// Initialize prepares the model and schedules its first events. It is
	// called with an empty scheduler.
	Initialize(
		src rng.Source,
		recorder R,
		scheduler *scheduling.EventScheduler[E],
	) error

	// StartFrame is called at the beginning of every frame.
	StartFrame(recorder R) error

	// FinishFrame is called at the end of every frame.
	FinishFrame(recorder R) error
}

// BulkEvents receives all the events fired in a frame in a single call.
type BulkEvents[R, E any] interface {
	StepInBulk(
		src rng.Source,
		recorder R,
		scheduler *scheduling.EventScheduler[E],
		fired []scheduling.Fired[E],
	) error
}

// EachEvent receives the fired events one at a time, in firing order.
type EachEvent[R, E any] interface {
	StepEachEvent(
		src rng.Source,
		recorder R,
		scheduler *scheduling.EventScheduler[E],
		priority scheduling.Priority,
		event E,
	) error
}

// EachEventWithEnd receives the fired events one at a time, followed by one
// more call with a nil event that marks the end of the frame's batch. The
// closing call happens even when nothing fired.
type EachEventWithEnd[R, E any] interface {
	StepEachEventOrEnd(
		src rng.Source,
		recorder R,
		scheduler *scheduling.EventScheduler[E],
		fired *scheduling.Fired[E],
	) error
}

// BeforeFire is an optional capability. BeforeFire runs after StartFrame and
// before the scheduler ticks.
type BeforeFire[R, E any] interface {
	BeforeFire(
		src rng.Source,
		recorder R,
		scheduler *scheduling.EventScheduler[E],
	) error
}

// AfterFire is an optional capability. AfterFire runs after the fired events
// are dispatched and before FinishFrame.
type AfterFire[R, E any] interface {
	AfterFire(
		src rng.Source,
		recorder R,
		scheduler *scheduling.EventScheduler[E],
	) error
}
