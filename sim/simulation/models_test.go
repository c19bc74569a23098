package simulation_test

import (
	"fmt"

	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/scheduling"
)

type event string

type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) drain() []string {
	calls := l.calls
	l.calls = nil

	return calls
}

type baseModel struct {
	setup     func(rng.Source, *scheduling.EventScheduler[event]) error
	startErr  error
	finishErr error
	updates   int
}

func (m *baseModel) Initialize(
	src rng.Source,
	recorder *callLog,
	scheduler *scheduling.EventScheduler[event],
) error {
	recorder.add("init")

	if m.setup == nil {
		return nil
	}

	return m.setup(src, scheduler)
}

func (m *baseModel) StartFrame(recorder *callLog) error {
	recorder.add("start")
	return m.startErr
}

func (m *baseModel) FinishFrame(recorder *callLog) error {
	recorder.add("finish")
	return m.finishErr
}

type bulkModel struct {
	baseModel
}

func (m *bulkModel) StepInBulk(
	_ rng.Source,
	recorder *callLog,
	_ *scheduling.EventScheduler[event],
	fired []scheduling.Fired[event],
) error {
	recorder.add("bulk:%d", len(fired))
	return nil
}

type eachModel struct {
	baseModel
	stepErr error
}

func (m *eachModel) StepEachEvent(
	_ rng.Source,
	recorder *callLog,
	_ *scheduling.EventScheduler[event],
	priority scheduling.Priority,
	evt event,
) error {
	recorder.add("event:%d:%s", priority, evt)
	return m.stepErr
}

type endModel struct {
	baseModel
	rewrite bool
}

func (m *endModel) StepEachEventOrEnd(
	_ rng.Source,
	recorder *callLog,
	_ *scheduling.EventScheduler[event],
	fired *scheduling.Fired[event],
) error {
	if fired == nil {
		recorder.add("end")
		return nil
	}

	recorder.add("event:%d:%s", fired.Priority, fired.Event)

	if m.rewrite {
		fired.Event = "rewritten"
	}

	return nil
}

type hookedModel struct {
	eachModel
}

func (m *hookedModel) BeforeFire(
	_ rng.Source,
	recorder *callLog,
	_ *scheduling.EventScheduler[event],
) error {
	recorder.add("before")
	return nil
}

func (m *hookedModel) AfterFire(
	_ rng.Source,
	recorder *callLog,
	_ *scheduling.EventScheduler[event],
) error {
	recorder.add("after")
	return nil
}

type noDispatchModel struct {
	baseModel
}

type twoDispatchModel struct {
	bulkModel
}

func (m *twoDispatchModel) StepEachEvent(
	_ rng.Source,
	_ *callLog,
	_ *scheduling.EventScheduler[event],
	_ scheduling.Priority,
	_ event,
) error {
	return nil
}
