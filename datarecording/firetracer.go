package datarecording

import (
	"fmt"

	"github.com/sarchlab/framesim/sim/hooking"
	"github.com/sarchlab/framesim/sim/simulation"
)

// Table names used by the FireTracer.
const (
	FrameTable = "frames"
	FiredTable = "fired_events"
)

// FrameEntry is one row of the frame table.
type FrameEntry struct {
	RunID   string
	Frame   uint64
	Fired   int
	Pending int
}

// FiredEntry is one row of the fired event table. The event is stored in its
// %v format.
type FiredEntry struct {
	RunID    string
	Frame    uint64
	Priority uint8
	Event    string
}

// A FireTracer is a hook that records every frame and every fired event of a
// simulator into a DataRecorder.
type FireTracer struct {
	recorder DataRecorder
	runID    string
}

// NewFireTracer creates the tables in recorder and returns the tracer. All
// the rows carry runID so that several runs can share one database.
func NewFireTracer(recorder DataRecorder, runID string) *FireTracer {
	recorder.CreateTable(FrameTable, FrameEntry{})
	recorder.CreateTable(FiredTable, FiredEntry{})

	return &FireTracer{
		recorder: recorder,
		runID:    runID,
	}
}

// Func records the frame information carried by the hook context.
func (t *FireTracer) Func(ctx hooking.HookCtx) {
	info, ok := ctx.Detail.(simulation.FrameInfo)
	if !ok {
		return
	}

	switch ctx.Pos {
	case simulation.HookPosFired:
		for _, f := range info.Fired {
			t.recorder.InsertData(FiredTable, FiredEntry{
				RunID:    t.runID,
				Frame:    ctx.Frame,
				Priority: uint8(f.Priority),
				Event:    fmt.Sprintf("%v", f.Event),
			})
		}
	case simulation.HookPosAfterFrame:
		t.recorder.InsertData(FrameTable, FrameEntry{
			RunID:   t.runID,
			Frame:   ctx.Frame,
			Fired:   len(info.Fired),
			Pending: info.Pending,
		})
	}
}
