package simulation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sarchlab/framesim/sim/hooking"
)

// FrameLogger is a hook that writes one debug line per frame and one trace
// line per fired event.
type FrameLogger struct {
	logger zerolog.Logger
}

// NewFrameLogger returns a FrameLogger that writes into logger.
func NewFrameLogger(logger zerolog.Logger) *FrameLogger {
	h := new(FrameLogger)
	h.logger = logger

	return h
}

// Func writes the frame information into the logger.
func (h *FrameLogger) Func(ctx hooking.HookCtx) {
	info, ok := ctx.Detail.(FrameInfo)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosFired:
		for _, f := range info.Fired {
			h.logger.Trace().
				Uint64("frame", ctx.Frame).
				Uint8("priority", uint8(f.Priority)).
				Str("event", fmt.Sprintf("%v", f.Event)).
				Msg("event fired")
		}
	case HookPosAfterFrame:
		h.logger.Debug().
			Uint64("frame", ctx.Frame).
			Int("fired", len(info.Fired)).
			Int("pending", info.Pending).
			Msg("frame finished")
	}
}
