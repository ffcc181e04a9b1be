package scheduling

import (
	"context"
	"net/http"

	"github.com/frahmantamala/people-console/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListSlots(ctx context.Context) ([]Slot, error)
	AddSlot(ctx context.Context, in SlotInput) (*Slot, error)
	UpdateSlot(ctx context.Context, oldKey string, in SlotInput) (*Slot, error)
	DeleteSlot(ctx context.Context, key string) error
	AvailableSlots(ctx context.Context) ([]Slot, error)
	ScheduledInterviews(ctx context.Context) ([]Interview, error)
	Book(ctx context.Context, req BookingRequest) (*Interview, error)
	Cancel(ctx context.Context, candidateID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.ListSlots(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, toSlotResponses(slots))
}

func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.AvailableSlots(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, toSlotResponses(slots))
}

func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	var in SlotInput
	if err := h.DecodeJSON(r, &in); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	slot, err := h.Service.AddSlot(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, SlotResponse{Key: slot.Key(), Slot: *slot})
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var in SlotInput
	if err := h.DecodeJSON(r, &in); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	slot, err := h.Service.UpdateSlot(r.Context(), chi.URLParam(r, "key"), in)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SlotResponse{Key: slot.Key(), Slot: *slot})
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSlot(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ScheduledInterviews(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, InterviewsResponse{Interviews: list})
}

// Book is the public booking endpoint candidates reach from their invite link.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	interview, err := h.Service.Book(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, interview)
}

func (h *Handler) CancelInterview(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Cancel(r.Context(), chi.URLParam(r, "candidateID")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
