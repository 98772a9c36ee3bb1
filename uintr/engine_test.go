package uintr

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/taic/hooking"
	"github.com/sarchlab/taic/taic"
)

type recordingHook struct {
	ctxs []hooking.HookCtx
}

func (h *recordingHook) Func(ctx hooking.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("Engine", func() {
	var (
		mockCtrl *gomock.Controller
		router   *MockRouter
		engine   *Engine
		hart     *Hart
		task     *TaskState
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		router = NewMockRouter(mockCtrl)
		engine = NewEngine(router)
		hart = NewHart(3, 3)
		task = &TaskState{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when the task never enabled user interrupts", func() {
		It("should not touch the controller on save", func() {
			engine.Save(hart, task)
		})

		It("should delegate and clear stale bits on restore", func() {
			// A prior task on this hart left enable and pending bits set.
			hart.Set(CSRUIE, USIE)
			hart.Set(CSRUIP, USIE)

			engine.Restore(hart, task)

			Expect(hart.Read(CSRSIdeleg) & USIE).To(Equal(USIE))
			Expect(hart.Read(CSRUIE) & USIE).To(BeZero())
			Expect(hart.Read(CSRUIP) & USIE).To(BeZero())
		})
	})

	Context("when the task is enabled", func() {
		BeforeEach(func() {
			task.Enable(0x0000000200000005)
		})

		It("should claim the hart as queue owner on restore", func() {
			router.EXPECT().
				RouteLQ(3, uint64(0x0000000200000005), uint64(3)).
				Return(nil)

			engine.Restore(hart, task)
		})

		It("should restore the shadow CSRs", func() {
			router.EXPECT().RouteLQ(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil)

			task.UIE = 0x1
			task.UEPC = 0x8000_1000
			task.UTVec = 0x8000_2000
			task.UScratch = 0xdead
			task.UIP = 0

			engine.Restore(hart, task)

			Expect(hart.Read(CSRUIE)).To(Equal(uint64(0x1)))
			Expect(hart.Read(CSRUEPC)).To(Equal(uint64(0x8000_1000)))
			Expect(hart.Read(CSRUTVec)).To(Equal(uint64(0x8000_2000)))
			Expect(hart.Read(CSRUScratch)).To(Equal(uint64(0xdead)))
		})

		It("should merge hardware-latched pending bits on restore", func() {
			router.EXPECT().RouteLQ(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil)

			// An interrupt arrived for this hart while the task was off-CPU.
			hart.Write(CSRUIP, USIE)
			task.UIP = 0x2

			engine.Restore(hart, task)

			Expect(hart.Read(CSRUIP)).To(Equal(uint64(0x2) | USIE))
		})

		It("should still restore the shadows when routing fails", func() {
			router.EXPECT().RouteLQ(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(taic.ErrNoController)

			task.UEPC = 0x8000_1000

			engine.Restore(hart, task)

			Expect(hart.Read(CSRUEPC)).To(Equal(uint64(0x8000_1000)))
		})

		It("should mark the queue ownerless on save", func() {
			router.EXPECT().
				RouteLQ(3, uint64(0x0000000200000005), taic.NoOwner).
				Return(nil)

			engine.Save(hart, task)
		})

		It("should snapshot the live CSRs into the shadow on save", func() {
			router.EXPECT().RouteLQ(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil)

			hart.Write(CSRUIE, 0x1)
			hart.Write(CSRUEPC, 0x8000_3000)
			hart.Write(CSRUTVec, 0x8000_4000)
			hart.Write(CSRUScratch, 0xbeef)
			hart.Write(CSRUIP, 0x1)

			engine.Save(hart, task)

			Expect(task.UIE).To(Equal(uint64(0x1)))
			Expect(task.UEPC).To(Equal(uint64(0x8000_3000)))
			Expect(task.UTVec).To(Equal(uint64(0x8000_4000)))
			Expect(task.UScratch).To(Equal(uint64(0xbeef)))
			Expect(task.UIP).To(Equal(uint64(0x1)))
		})

		It("should carry the shadows bit-for-bit across harts", func() {
			router.EXPECT().RouteLQ(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil).
				Times(2)

			hart.Write(CSRUIE, 0x1)
			hart.Write(CSRUEPC, 0x8000_3000)
			hart.Write(CSRUTVec, 0x8000_4000)
			hart.Write(CSRUScratch, 0xbeef)

			engine.Save(hart, task)

			other := NewHart(1, 1)
			engine.Restore(other, task)

			Expect(other.Read(CSRUIE)).To(Equal(hart.Read(CSRUIE)))
			Expect(other.Read(CSRUEPC)).To(Equal(hart.Read(CSRUEPC)))
			Expect(other.Read(CSRUTVec)).To(Equal(hart.Read(CSRUTVec)))
			Expect(other.Read(CSRUScratch)).To(Equal(hart.Read(CSRUScratch)))
		})

		It("should free the queue and reset the task on release", func() {
			router.EXPECT().FreeLQ(3, uint64(0x0000000200000005)).Return(nil)

			Expect(engine.Release(hart, task)).To(Succeed())
			Expect(task.Enabled).To(BeFalse())
			Expect(task.LQIndex).To(Equal(uint64(0)))
		})

		It("should keep the task bound when free fails", func() {
			router.EXPECT().FreeLQ(gomock.Any(), gomock.Any()).
				Return(errors.New("backing gone"))

			Expect(engine.Release(hart, task)).ToNot(Succeed())
			Expect(task.Enabled).To(BeTrue())
		})

		It("should invoke hooks with the routing outcome", func() {
			router.EXPECT().RouteLQ(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil).
				Times(2)

			hook := &recordingHook{}
			engine.AcceptHook(hook)

			engine.Restore(hart, task)
			engine.Save(hart, task)

			Expect(hook.ctxs).To(HaveLen(2))
			Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(HookPosRestore))
			Expect(hook.ctxs[1].Pos).To(BeIdenticalTo(HookPosSave))

			detail := hook.ctxs[1].Detail.(HookDetail)
			Expect(detail.Owner).To(Equal(taic.NoOwner))
			Expect(detail.CPU).To(Equal(3))
		})
	})

	It("should no-op release for a disabled task", func() {
		Expect(engine.Release(hart, task)).To(Succeed())
	})
})
