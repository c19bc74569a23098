package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/sim/hooking"
	"github.com/sarchlab/framesim/sim/simulation"
	"github.com/sarchlab/framesim/tracing"
)

type ping struct{ n int }

func firedCtx(events ...any) hooking.HookCtx {
	info := simulation.FrameInfo{}
	for _, e := range events {
		info.Fired = append(info.Fired, simulation.FiredEvent{Event: e})
	}

	return hooking.HookCtx{
		Pos:    simulation.HookPosFired,
		Detail: info,
	}
}

var _ = Describe("FireCountTracer", func() {
	It("should count fires by value", func() {
		t := tracing.NewFireCountTracer(nil)

		t.Func(firedCtx("a", "b"))
		t.Func(firedCtx())
		t.Func(firedCtx("a"))

		Expect(t.GetKinds()).To(Equal([]string{"a", "b"}))
		Expect(t.GetFireCount("a")).To(Equal(uint64(2)))
		Expect(t.GetFireCount("b")).To(Equal(uint64(1)))
		Expect(t.GetFireCount("c")).To(BeZero())
		Expect(t.GetTotalFireCount()).To(Equal(uint64(3)))
		Expect(t.GetFramesWithFire()).To(Equal(uint64(2)))
		Expect(t.GetFramesWithoutFire()).To(Equal(uint64(1)))
	})

	It("should count fires by type", func() {
		t := tracing.NewFireCountTracer(tracing.KindByType)

		t.Func(firedCtx(ping{1}, ping{2}, "x"))

		Expect(t.GetFireCount("tracing_test.ping")).To(Equal(uint64(2)))
		Expect(t.GetFireCount("string")).To(Equal(uint64(1)))
	})

	It("should ignore other hook positions", func() {
		t := tracing.NewFireCountTracer(nil)
		ctx := firedCtx("a")
		ctx.Pos = simulation.HookPosAfterFrame

		t.Func(ctx)

		Expect(t.GetTotalFireCount()).To(BeZero())
		Expect(t.GetFramesWithFire()).To(BeZero())
	})
})
