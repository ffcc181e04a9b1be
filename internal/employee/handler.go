package employee

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) (*Groups, error)
	Get(ctx context.Context, id string) (*View, error)
	Create(ctx context.Context, req CreateRequest) (*Created, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*View, error)
	Delete(ctx context.Context, id string) error
	UpdateHiringChecklist(ctx context.Context, id string, req ChecklistUpdate) (*View, error)
	OpenDismissal(ctx context.Context, id string) (*View, error)
	UpdateDismissal(ctx context.Context, id string, req DismissalUpdate) (*View, error)
	FinalizeDismissal(ctx context.Context, id string, req FinalizeRequest) (*View, error)
	MonthEvents(ctx context.Context, month time.Month) (*MonthEventsResponse, error)
	WeekEvents(ctx context.Context) (*WeekEventsResponse, error)
	Message(ctx context.Context, id string, kind MessageKind) (*Message, error)
	AdmissionForm(ctx context.Context, id string) (*AdmissionForm, error)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	v, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateHiringChecklist(w http.ResponseWriter, r *http.Request) {
	var req ChecklistUpdate
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	v, err := h.Service.UpdateHiringChecklist(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) OpenDismissal(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.OpenDismissal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) UpdateDismissal(w http.ResponseWriter, r *http.Request) {
	var req DismissalUpdate
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	v, err := h.Service.UpdateDismissal(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) FinalizeDismissal(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	v, err := h.Service.FinalizeDismissal(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

// MonthEvents reads the month from ?month=1..12, defaulting to the current one.
func (h *Handler) MonthEvents(w http.ResponseWriter, r *http.Request) {
	var month time.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleServiceError(w, r, internal.NewValidationFieldError("month", "month must be a number", internal.ErrCodeValidationFailed))
			return
		}
		month = time.Month(n)
		if month == 0 {
			month = -1
		}
	}
	res, err := h.Service.MonthEvents(r.Context(), month)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) WeekEvents(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.WeekEvents(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.Message(r.Context(), chi.URLParam(r, "id"), MessageKind(chi.URLParam(r, "kind")))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

// AdmissionForm answers JSON, or a CSV attachment with ?format=csv.
func (h *Handler) AdmissionForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.Service.AdmissionForm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") != "csv" {
		h.WriteJSON(w, http.StatusOK, form)
		return
	}

	body, err := form.CSV()
	if err != nil {
		h.HandleServiceError(w, r, internal.NewInternalError("failed to render admission form", err))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.Logger.Error("failed to write admission form", "error", err)
	}
}
