package state_test

import (
	"cocina/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Status", func() {
	Describe("CanTransit", func() {
		Context("with the order lifecycle PENDING-PREPARING-COMPLETED", func() {
			It("should allow PENDING to PREPARING", func() {
				Expect(state.CanTransit(state.StatusPending, state.StatusPreparing)).To(BeTrue())
			})
			It("should allow PREPARING to COMPLETED", func() {
				Expect(state.CanTransit(state.StatusPreparing, state.StatusCompleted)).To(BeTrue())
			})
			It("should not allow skipping PREPARING", func() {
				Expect(state.CanTransit(state.StatusPending, state.StatusCompleted)).To(BeFalse())
			})
			It("should not allow leaving a terminal status", func() {
				Expect(state.CanTransit(state.StatusCompleted, state.StatusPreparing)).To(BeFalse())
				Expect(state.CanTransit(state.StatusCompleted, state.StatusPending)).To(BeFalse())
				Expect(state.CanTransit(state.StatusRevoked, state.StatusPreparing)).To(BeFalse())
			})
			It("should not allow moving backwards", func() {
				Expect(state.CanTransit(state.StatusPreparing, state.StatusPending)).To(BeFalse())
			})
		})
	})

	Describe("IsTerminal", func() {
		It("should treat COMPLETED and REVOKED as terminal", func() {
			Expect(state.StatusCompleted.IsTerminal()).To(BeTrue())
			Expect(state.StatusRevoked.IsTerminal()).To(BeTrue())
			Expect(state.StatusPending.IsTerminal()).To(BeFalse())
			Expect(state.StatusPreparing.IsTerminal()).To(BeFalse())
		})
	})

	Describe("IsValid", func() {
		It("should reject unknown statuses", func() {
			Expect(state.Status("COOKED").IsValid()).To(BeFalse())
			Expect(state.StatusPreparing.IsValid()).To(BeTrue())
		})
	})

	Describe("ActiveStatuses", func() {
		It("should exclude terminal statuses", func() {
			Expect(state.ActiveStatuses()).To(Equal([]state.Status{state.StatusPending, state.StatusPreparing}))
		})
	})
})
