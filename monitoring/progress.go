package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/framesim/sim/hooking"
	"github.com/sarchlab/framesim/sim/simulation"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// Snapshot returns a copy of the counters that is safe to read.
func (b *ProgressBar) Snapshot() (finished, inProgress, total uint64) {
	b.Lock()
	defer b.Unlock()

	return b.Finished, b.InProgress, b.Total
}

// FrameProgress is a hook that drives a progress bar with the frames of a
// simulation. A frame is in progress between its BeforeFrame and AfterFrame
// hooks.
type FrameProgress struct {
	monitor *Monitor
	bar     *ProgressBar
}

// Bar returns the progress bar driven by the hook.
func (p *FrameProgress) Bar() *ProgressBar {
	return p.bar
}

// Func advances the bar.
func (p *FrameProgress) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case simulation.HookPosBeforeFrame:
		p.bar.IncrementInProgress(1)
	case simulation.HookPosAfterFrame:
		p.bar.MoveInProgressToFinished(1)
	}
}

// Complete removes the bar from the monitor. A run that stops before its
// frame budget is used up calls it so that no stale bar is left behind.
func (p *FrameProgress) Complete() {
	p.monitor.CompleteProgressBar(p.bar)
}
