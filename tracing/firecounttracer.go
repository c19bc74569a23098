// Package tracing provides hooks that summarize what happened during a
// simulation.
package tracing

import (
	"fmt"
	"sync"

	"github.com/sarchlab/framesim/sim/hooking"
	"github.com/sarchlab/framesim/sim/simulation"
)

// EventKind names the kind of a fired event for counting.
type EventKind func(event any) string

// KindByValue uses the %v format of the event as its kind.
func KindByValue(event any) string {
	return fmt.Sprintf("%v", event)
}

// KindByType uses the Go type of the event as its kind.
func KindByType(event any) string {
	return fmt.Sprintf("%T", event)
}

// FireCountTracer counts how many times each kind of event fired and in how
// many frames at least one event fired.
type FireCountTracer struct {
	kindOf EventKind

	lock              sync.Mutex
	kinds             []string
	fireCount         map[string]uint64
	framesWithFire    uint64
	framesWithoutFire uint64
}

// NewFireCountTracer creates a new FireCountTracer. A nil kindOf counts events
// by value.
func NewFireCountTracer(kindOf EventKind) *FireCountTracer {
	if kindOf == nil {
		kindOf = KindByValue
	}

	return &FireCountTracer{
		kindOf:    kindOf,
		fireCount: make(map[string]uint64),
	}
}

// Func counts the events that fired in the frame.
func (t *FireCountTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != simulation.HookPosFired {
		return
	}

	info, ok := ctx.Detail.(simulation.FrameInfo)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if len(info.Fired) == 0 {
		t.framesWithoutFire++
		return
	}

	t.framesWithFire++

	for _, f := range info.Fired {
		t.countFire(t.kindOf(f.Event))
	}
}

func (t *FireCountTracer) countFire(kind string) {
	_, ok := t.fireCount[kind]
	if !ok {
		t.kinds = append(t.kinds, kind)
	}

	t.fireCount[kind]++
}

// GetKinds returns the event kinds in the order they first fired.
func (t *FireCountTracer) GetKinds() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.kinds...)
}

// GetFireCount returns how many times events of kind fired.
func (t *FireCountTracer) GetFireCount(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.fireCount[kind]
}

// GetTotalFireCount returns how many events fired in total.
func (t *FireCountTracer) GetTotalFireCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	var total uint64
	for _, n := range t.fireCount {
		total += n
	}

	return total
}

// GetFramesWithFire returns the number of frames in which at least one event
// fired.
func (t *FireCountTracer) GetFramesWithFire() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.framesWithFire
}

// GetFramesWithoutFire returns the number of frames in which nothing fired.
func (t *FireCountTracer) GetFramesWithoutFire() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.framesWithoutFire
}
