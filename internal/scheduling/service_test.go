package scheduling_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/people-console/internal/scheduling"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/store/storetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockDirectory struct {
	names map[string]string
}

func (m *mockDirectory) CandidateName(ctx context.Context, id string) (string, error) {
	name, ok := m.names[id]
	if !ok {
		return "", scheduling.ErrCandidateNotFound
	}
	return name, nil
}

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		recorder *storetest.Recorder
		service  *scheduling.Service
		input    scheduling.SlotInput
	)

	BeforeEach(func() {
		ctx = context.Background()
		docs, _, err := storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		recorder = storetest.NewRecorder(docs)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		directory := &mockDirectory{names: map[string]string{"c1": "Ana Souza", "c2": "Bruno Lima"}}
		service = scheduling.NewService(scheduling.NewRepository(recorder), directory, time.UTC, logger)
		input = scheduling.SlotInput{Date: "2025-05-01", Time: "10:00", Duration: 30, Type: scheduling.Online}
	})

	Describe("AddSlot", func() {
		It("persists the slot under start_type", func() {
			slot, err := service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			Expect(recorder.Writes).To(HaveLen(1))
			Expect(recorder.Writes[0].Collection).To(Equal(store.InterviewSlots))
			Expect(recorder.Writes[0].ID).To(Equal("2025-05-01T10:00:00.000Z_online"))
			Expect(slot.End).To(Equal("2025-05-01T10:30:00.000Z"))
		})

		It("lets the last write win for the same start and type", func() {
			_, err := service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			input.Duration = 60
			_, err = service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			slots, err := service.ListSlots(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(slots).To(HaveLen(1))
			Expect(slots[0].End).To(Equal("2025-05-01T11:00:00.000Z"))
		})

		It("writes nothing for invalid input", func() {
			input.Time = ""
			_, err := service.AddSlot(ctx, input)
			Expect(err).To(HaveOccurred())
			Expect(recorder.WriteCount()).To(Equal(0))
		})
	})

	Describe("UpdateSlot", func() {
		It("moves the slot to its new key", func() {
			// Given
			old, err := service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			// When
			input.Time = "14:00"
			updated, err := service.UpdateSlot(ctx, old.Key(), input)

			// Then
			Expect(err).NotTo(HaveOccurred())
			slots, err := service.ListSlots(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(slots).To(ConsistOf(*updated))
			Expect(updated.Start).To(Equal("2025-05-01T14:00:00.000Z"))
		})

		It("keeps the key when only the duration changes", func() {
			old, err := service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			recorder.Reset()

			input.Duration = 45
			_, err = service.UpdateSlot(ctx, old.Key(), input)

			Expect(err).NotTo(HaveOccurred())
			Expect(recorder.Writes).To(HaveLen(1))
			Expect(recorder.Writes[0].Op).To(Equal(storetest.OpSet))
		})

		It("fails for an unknown slot", func() {
			_, err := service.UpdateSlot(ctx, "missing_online", input)
			Expect(err).To(MatchError(scheduling.ErrSlotNotFound))
		})

		It("leaves the old slot when the new write is rejected", func() {
			old, err := service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			recorder.FailOn(storetest.OpSet, errors.New("permission denied"))

			input.Time = "15:00"
			_, err = service.UpdateSlot(ctx, old.Key(), input)

			Expect(err).To(HaveOccurred())
			slots, err := service.ListSlots(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(slots).To(ConsistOf(*old))
		})
	})

	Describe("booking", func() {
		var slot *scheduling.Slot

		BeforeEach(func() {
			var err error
			slot, err = service.AddSlot(ctx, input)
			Expect(err).NotTo(HaveOccurred())
		})

		It("removes a booked slot from availability", func() {
			interview, err := service.Book(ctx, scheduling.BookingRequest{CandidateID: "c1", SlotKey: slot.Key(), Link: "https://meet.example/abc"})
			Expect(err).NotTo(HaveOccurred())
			Expect(interview.CandidateName).To(Equal("Ana Souza"))

			available, err := service.AvailableSlots(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(available).To(BeEmpty())

			scheduled, err := service.ScheduledInterviews(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(scheduled).To(HaveLen(1))
			Expect(scheduled[0].Link).To(Equal("https://meet.example/abc"))
		})

		It("refuses a slot someone else holds", func() {
			_, err := service.Book(ctx, scheduling.BookingRequest{CandidateID: "c1", SlotKey: slot.Key()})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Book(ctx, scheduling.BookingRequest{CandidateID: "c2", SlotKey: slot.Key()})
			Expect(err).To(MatchError(scheduling.ErrSlotUnavailable))
		})

		It("refuses unknown candidates before touching the store", func() {
			recorder.Reset()
			_, err := service.Book(ctx, scheduling.BookingRequest{CandidateID: "ghost", SlotKey: slot.Key()})
			Expect(err).To(MatchError(scheduling.ErrCandidateNotFound))
			Expect(recorder.WriteCount()).To(Equal(0))
		})

		It("frees the slot again on cancel", func() {
			_, err := service.Book(ctx, scheduling.BookingRequest{CandidateID: "c1", SlotKey: slot.Key()})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Cancel(ctx, "c1")).To(Succeed())

			available, err := service.AvailableSlots(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(available).To(HaveLen(1))
			Expect(service.Cancel(ctx, "c1")).To(MatchError(scheduling.ErrInterviewNotFound))
		})
	})
})
