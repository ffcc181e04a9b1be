package scheduling

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/common/validation"
)

type SlotInput struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Duration Minutes `json:"duration"`
	Type     Type    `json:"type"`
}

func (in SlotInput) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("date", in.Date).Required().ISODate()
	v.Field("time", in.Time).Required().ClockTime()
	v.Field("duration", int(in.Duration)).Required().MinInt(1, internal.ErrCodeInvalidSlot)
	if in.Type != "" {
		v.Field("type", string(in.Type)).OneOf(string(Online), string(InPerson))
	}
	return v.Validate()
}

type BookingRequest struct {
	CandidateID string `json:"candidateId"`
	SlotKey     string `json:"slotKey"`
	Link        string `json:"link"`
}

func (b BookingRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("candidateId", b.CandidateID).Required()
	v.Field("slotKey", b.SlotKey).Required()
	return v.Validate()
}

type SlotResponse struct {
	Key string `json:"key"`
	Slot
}

type SlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

type InterviewsResponse struct {
	Interviews []Interview `json:"interviews"`
}

func toSlotResponses(slots []Slot) SlotsResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{Key: s.Key(), Slot: s})
	}
	return SlotsResponse{Slots: out}
}
