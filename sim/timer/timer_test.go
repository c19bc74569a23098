package timer_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/framesim/sim/rng"
	"github.com/sarchlab/framesim/sim/timer"
)

var _ = Describe("Timer", func() {
	var (
		mockCtrl *gomock.Controller
		src      *MockSource
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		src = NewMockSource(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("fixed", func() {
		It("should return the value without drawing", func() {
			t, err := timer.Fixed(10).Sample(src)

			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(timer.LocalTime(10)))
		})
	})

	Context("uniform", func() {
		It("should draw from the half-open range", func() {
			src.EXPECT().Uniform(uint64(1), uint64(10)).Return(uint64(4))

			t, err := timer.Uniform(1, 10).Sample(src)

			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(timer.LocalTime(4)))
		})

		It("should extend the upper bound when inclusive", func() {
			src.EXPECT().Uniform(uint64(20), uint64(31)).Return(uint64(30))

			t, err := timer.UniformInclusive(20, 30).Sample(src)

			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(timer.LocalTime(30)))
		})

		It("should accept a single-value inclusive range", func() {
			Expect(timer.UniformInclusive(3, 3).Validate()).To(Succeed())
		})

		It("should reject an empty range without drawing", func() {
			_, err := timer.Uniform(5, 5).Sample(src)

			Expect(errors.Is(err, timer.ErrEmptyRange)).To(BeTrue())
		})
	})

	Context("weighted", func() {
		It("should return the value paired with the drawn index", func() {
			w := timer.Weighted(
				timer.Choice{Value: 5, Weight: 3},
				timer.Choice{Value: 10, Weight: 2},
				timer.Choice{Value: 15, Weight: 1},
			)
			src.EXPECT().Weighted([]int{3, 2, 1}).Return(1, nil)

			t, err := w.Sample(src)

			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(timer.LocalTime(10)))
		})

		It("should propagate invalid weights", func() {
			w := timer.Weighted(timer.Choice{Value: 5, Weight: 0})

			_, err := w.Sample(rng.New(1))

			Expect(errors.Is(err, rng.ErrInvalidWeights)).To(BeTrue())
			Expect(errors.Is(w.Validate(), rng.ErrAllWeightsZero)).To(BeTrue())
		})

		It("should reject an empty choice list", func() {
			Expect(errors.Is(timer.Weighted().Validate(), rng.ErrNoItem)).
				To(BeTrue())
		})
	})

	It("should name timers", func() {
		Expect(timer.Fixed(10).String()).To(Equal("fixed(10)"))
		Expect(timer.Uniform(1, 10).String()).To(Equal("uniform[1,10)"))
		Expect(timer.UniformInclusive(1, 10).String()).
			To(Equal("uniform[1,10]"))
		Expect(timer.Weighted(
			timer.Choice{Value: 1, Weight: 2},
			timer.Choice{Value: 5, Weight: 5},
		).String()).To(Equal("weighted[(1,2) (5,5)]"))
	})
})
