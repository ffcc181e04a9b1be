package scheduling_test

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/scheduling"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildSlot", func() {
	It("stores the UTC instant with milliseconds", func() {
		slot, err := scheduling.BuildSlot(scheduling.SlotInput{
			Date: "2025-05-01", Time: "10:00", Duration: 30, Type: scheduling.Online,
		}, time.UTC)

		Expect(err).NotTo(HaveOccurred())
		Expect(slot.Start).To(Equal("2025-05-01T10:00:00.000Z"))
		Expect(slot.End).To(Equal("2025-05-01T10:30:00.000Z"))
		Expect(slot.Type).To(Equal(scheduling.Online))
		Expect(slot.Key()).To(Equal("2025-05-01T10:00:00.000Z_online"))
	})

	It("reads the wall clock in the configured location", func() {
		loc := time.FixedZone("BRT", -3*60*60)

		slot, err := scheduling.BuildSlot(scheduling.SlotInput{
			Date: "2025-05-01", Time: "22:30", Duration: 60, Type: scheduling.InPerson,
		}, loc)

		Expect(err).NotTo(HaveOccurred())
		Expect(slot.Start).To(Equal("2025-05-02T01:30:00.000Z"))
		Expect(slot.End).To(Equal("2025-05-02T02:30:00.000Z"))
	})

	It("defaults the type to online", func() {
		slot, err := scheduling.BuildSlot(scheduling.SlotInput{Date: "2025-05-01", Time: "09:00", Duration: 15}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(slot.Type).To(Equal(scheduling.Online))
	})

	DescribeTable("rejects incomplete input",
		func(in scheduling.SlotInput) {
			_, err := scheduling.BuildSlot(in, time.UTC)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		},
		Entry("missing date", scheduling.SlotInput{Time: "10:00", Duration: 30}),
		Entry("missing time", scheduling.SlotInput{Date: "2025-05-01", Duration: 30}),
		Entry("missing duration", scheduling.SlotInput{Date: "2025-05-01", Time: "10:00"}),
		Entry("bad time", scheduling.SlotInput{Date: "2025-05-01", Time: "10h", Duration: 30}),
		Entry("bad type", scheduling.SlotInput{Date: "2025-05-01", Time: "10:00", Duration: 30, Type: "phone"}),
		Entry("impossible date", scheduling.SlotInput{Date: "2025-02-30", Time: "10:00", Duration: 30}),
	)
})

var _ = Describe("Minutes", func() {
	It("accepts strings and numbers", func() {
		var a, b scheduling.SlotInput
		Expect(json.Unmarshal([]byte(`{"duration":"30"}`), &a)).To(Succeed())
		Expect(json.Unmarshal([]byte(`{"duration":45}`), &b)).To(Succeed())
		Expect(a.Duration).To(Equal(scheduling.Minutes(30)))
		Expect(b.Duration).To(Equal(scheduling.Minutes(45)))
	})

	It("rejects non numeric text", func() {
		var in scheduling.SlotInput
		Expect(json.Unmarshal([]byte(`{"duration":"half hour"}`), &in)).NotTo(Succeed())
	})
})

var _ = Describe("Available", func() {
	slotA := scheduling.Slot{Start: "2025-05-01T10:00:00.000Z", End: "2025-05-01T10:30:00.000Z", Type: scheduling.Online}
	slotB := scheduling.Slot{Start: "2025-05-01T11:00:00.000Z", End: "2025-05-01T11:30:00.000Z", Type: scheduling.Online}

	It("drops slots present in both sets and keeps the rest", func() {
		booked := []scheduling.Interview{{CandidateID: "c1", Start: slotA.Start, End: slotA.End, Type: slotA.Type}}

		Expect(scheduling.Available([]scheduling.Slot{slotA, slotB}, booked)).To(Equal([]scheduling.Slot{slotB}))
	})

	It("needs start, end and type to match", func() {
		booked := []scheduling.Interview{
			{CandidateID: "c1", Start: slotA.Start, End: slotA.End, Type: scheduling.InPerson},
			{CandidateID: "c2", Start: slotA.Start, End: "2025-05-01T11:00:00.000Z", Type: scheduling.Online},
		}

		Expect(scheduling.Available([]scheduling.Slot{slotA}, booked)).To(ConsistOf(slotA))
	})
})
