package simulation

import (
	"errors"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/sarchlab/framesim/sim/hooking"
	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/scheduling"
)

var (
	// ErrNoDispatch is returned when a model implements none of BulkEvents,
	// EachEvent, and EachEventWithEnd.
	ErrNoDispatch = errors.New("model does not implement any dispatch strategy")

	// ErrAmbiguousDispatch is returned when a model implements more than one
	// of BulkEvents, EachEvent, and EachEventWithEnd.
	ErrAmbiguousDispatch = errors.New(
		"model implements more than one dispatch strategy")
)

// HookPosBeforeFrame triggers before the model's StartFrame.
var HookPosBeforeFrame = &hooking.HookPos{Name: "BeforeFrame"}

// HookPosFired triggers after the scheduler ticks and before the fired events
// are dispatched. The hook Item is the []scheduling.Fired[E] batch.
var HookPosFired = &hooking.HookPos{Name: "Fired"}

// HookPosAfterFrame triggers after the model's FinishFrame.
var HookPosAfterFrame = &hooking.HookPos{Name: "AfterFrame"}

// FiredEvent is a fired event with its type erased, so that hooks can
// inspect batches of any event type.
type FiredEvent struct {
	Priority scheduling.Priority
	Event    any
}

// FrameInfo is the Detail of the HookPosFired and HookPosAfterFrame hooks.
type FrameInfo struct {
	Fired   []FiredEvent
	Pending int
}

// Status is a snapshot of a simulator that is safe to take from any
// goroutine.
type Status struct {
	Frame      uint64 `json:"frame"`
	Pending    int    `json:"pending"`
	FiredTotal uint64 `json:"fired_total"`
	Paused     bool   `json:"paused"`
}

type dispatchFunc[E any] func(fired []scheduling.Fired[E]) error

// A Simulator advances a model frame by frame. It owns the model, the
// recorder, the scheduler, and the random source for the whole run.
type Simulator[M Model[R, E], R, E any] struct {
	hooking.HookableBase

	id        string
	model     M
	recorder  R
	scheduler *scheduling.EventScheduler[E]
	source    rng.Source

	dispatch   dispatchFunc[E]
	beforeFire BeforeFire[R, E]
	afterFire  AfterFire[R, E]

	frame      uint64
	firedTotal uint64

	statusLock sync.RWMutex
	status     Status

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex
}

// ID returns the unique ID of the simulation run.
func (s *Simulator[M, R, E]) ID() string {
	return s.id
}

// Model returns the simulated model.
func (s *Simulator[M, R, E]) Model() M {
	return s.model
}

// Recorder returns the recorder.
func (s *Simulator[M, R, E]) Recorder() R {
	return s.recorder
}

// SwapRecorder replaces the recorder and returns the previous one.
func (s *Simulator[M, R, E]) SwapRecorder(recorder R) R {
	old := s.recorder
	s.recorder = recorder

	return old
}

// Scheduler returns the event scheduler.
func (s *Simulator[M, R, E]) Scheduler() *scheduling.EventScheduler[E] {
	return s.scheduler
}

// Source returns the random source.
func (s *Simulator[M, R, E]) Source() rng.Source {
	return s.source
}

// Frame returns the number of frames run since the last Initialize.
func (s *Simulator[M, R, E]) Frame() uint64 {
	return s.frame
}

// Status returns a snapshot of the simulator taken at the end of the last
// frame.
func (s *Simulator[M, R, E]) Status() Status {
	s.statusLock.RLock()
	status := s.status
	s.statusLock.RUnlock()

	s.isPausedLock.Lock()
	status.Paused = s.isPaused
	s.isPausedLock.Unlock()

	return status
}

// Initialize empties the scheduler, rewinds the frame number to 0, and lets
// the model schedule its first events.
func (s *Simulator[M, R, E]) Initialize() error {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	s.scheduler.Clear()
	s.frame = 0
	s.firedTotal = 0

	err := s.model.Initialize(s.source, s.recorder, s.scheduler)

	s.updateStatus()

	return err
}

// Step runs exactly one frame. A frame that has started always runs to the
// end unless a model callback returns an error, which is returned as is.
func (s *Simulator[M, R, E]) Step() error {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	return s.step()
}

// Run runs exactly n frames.
func (s *Simulator[M, R, E]) Run(n uint64) error {
	return RunFrames(s, n)
}

// RunWhile runs frames for as long as predicate holds. The predicate is
// checked before every frame, so no frame runs if it is false from the
// start.
func (s *Simulator[M, R, E]) RunWhile(predicate func(M) bool) error {
	for predicate(s.model) {
		if err := s.Step(); err != nil {
			return err
		}
	}

	return nil
}

// RunWhileUpdating calls update right before every check of predicate and
// runs a frame each time predicate holds.
func (s *Simulator[M, R, E]) RunWhileUpdating(
	update func(M),
	predicate func(M) bool,
) error {
	for {
		update(s.model)

		if !predicate(s.model) {
			return nil
		}

		if err := s.Step(); err != nil {
			return err
		}
	}
}

// RunFrames runs exactly n frames, counting with the width of n.
func RunFrames[T constraints.Unsigned, M Model[R, E], R, E any](
	s *Simulator[M, R, E],
	n T,
) error {
	counter := NewFrameCounter(n)
	for counter.Next() {
		if err := s.Step(); err != nil {
			return err
		}
	}

	return nil
}

// Pause blocks the simulator before the next frame starts. A frame that is
// already running finishes first.
func (s *Simulator[M, R, E]) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue lets a paused simulator run frames again.
func (s *Simulator[M, R, E]) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

func (s *Simulator[M, R, E]) step() error {
	s.frame++

	s.invokeHook(HookPosBeforeFrame, nil, nil)

	err := s.model.StartFrame(s.recorder)
	if err != nil {
		return err
	}

	if s.beforeFire != nil {
		err = s.beforeFire.BeforeFire(s.source, s.recorder, s.scheduler)
		if err != nil {
			return err
		}
	}

	fired := s.scheduler.AdvanceAndFire(s.source)
	s.firedTotal += uint64(len(fired))

	var info *FrameInfo
	if s.NumHooks() > 0 {
		info = s.frameInfo(fired)
		s.invokeHook(HookPosFired, fired, *info)
	}

	err = s.dispatch(fired)
	if err != nil {
		return err
	}

	if s.afterFire != nil {
		err = s.afterFire.AfterFire(s.source, s.recorder, s.scheduler)
		if err != nil {
			return err
		}
	}

	err = s.model.FinishFrame(s.recorder)
	if err != nil {
		return err
	}

	s.updateStatus()

	if info != nil {
		info.Pending = s.scheduler.PendingCount()
		s.invokeHook(HookPosAfterFrame, fired, *info)
	}

	return nil
}

func (s *Simulator[M, R, E]) invokeHook(
	pos *hooking.HookPos,
	item, detail any,
) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    pos,
		Frame:  s.frame,
		Item:   item,
		Detail: detail,
	})
}

func (s *Simulator[M, R, E]) frameInfo(
	fired []scheduling.Fired[E],
) *FrameInfo {
	info := &FrameInfo{
		Fired:   make([]FiredEvent, len(fired)),
		Pending: s.scheduler.PendingCount(),
	}

	for i, f := range fired {
		info.Fired[i] = FiredEvent{Priority: f.Priority, Event: f.Event}
	}

	return info
}

func (s *Simulator[M, R, E]) updateStatus() {
	s.statusLock.Lock()
	s.status.Frame = s.frame
	s.status.Pending = s.scheduler.PendingCount()
	s.status.FiredTotal = s.firedTotal
	s.statusLock.Unlock()
}

func (s *Simulator[M, R, E]) dispatchInBulk(
	m BulkEvents[R, E],
) dispatchFunc[E] {
	return func(fired []scheduling.Fired[E]) error {
		return m.StepInBulk(s.source, s.recorder, s.scheduler, fired)
	}
}

func (s *Simulator[M, R, E]) dispatchEachEvent(
	m EachEvent[R, E],
) dispatchFunc[E] {
	return func(fired []scheduling.Fired[E]) error {
		for _, f := range fired {
			err := m.StepEachEvent(
				s.source, s.recorder, s.scheduler, f.Priority, f.Event)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

func (s *Simulator[M, R, E]) dispatchEachEventWithEnd(
	m EachEventWithEnd[R, E],
) dispatchFunc[E] {
	return func(fired []scheduling.Fired[E]) error {
		for _, f := range fired {
			err := m.StepEachEventOrEnd(s.source, s.recorder, s.scheduler, &f)
			if err != nil {
				return err
			}
		}

		return m.StepEachEventOrEnd(s.source, s.recorder, s.scheduler, nil)
	}
}

func (s *Simulator[M, R, E]) selectDispatch() error {
	var (
		strategies int
		model      any = s.model
	)

	if m, ok := model.(BulkEvents[R, E]); ok {
		strategies++
		s.dispatch = s.dispatchInBulk(m)
	}

	if m, ok := model.(EachEvent[R, E]); ok {
		strategies++
		s.dispatch = s.dispatchEachEvent(m)
	}

	if m, ok := model.(EachEventWithEnd[R, E]); ok {
		strategies++
		s.dispatch = s.dispatchEachEventWithEnd(m)
	}

	switch strategies {
	case 0:
		return ErrNoDispatch
	case 1:
	default:
		return ErrAmbiguousDispatch
	}

	if m, ok := model.(BeforeFire[R, E]); ok {
		s.beforeFire = m
	}

	if m, ok := model.(AfterFire[R, E]); ok {
		s.afterFire = m
	}

	return nil
}
