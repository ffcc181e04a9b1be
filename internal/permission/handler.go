package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/people-console/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) (Matrix, error)
	BulkUpdate(ctx context.Context, req BulkUpdateRequest) (Matrix, error)
	ToggleCell(ctx context.Context, email, capability string) (Matrix, error)
	ToggleRow(ctx context.Context, email string) (Matrix, error)
	ToggleColumn(ctx context.Context, capability string) (Matrix, error)
	ToggleAll(ctx context.Context) (Matrix, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountCreated, error)
	Rename(ctx context.Context, oldEmail string, req RenameRequest) (*Entry, error)
	Freeze(ctx context.Context, email string, frozen bool) error
	Delete(ctx context.Context, email string) error
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

func (h *Handler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.List(r.Context())
	h.writeMatrix(w, r, m, err)
}

func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	m, err := h.Service.BulkUpdate(r.Context(), req)
	h.writeMatrix(w, r, m, err)
}

func (h *Handler) ToggleCell(w http.ResponseWriter, r *http.Request) {
	var req ToggleCellRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	m, err := h.Service.ToggleCell(r.Context(), req.Email, req.Capability)
	h.writeMatrix(w, r, m, err)
}

func (h *Handler) ToggleRow(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.ToggleRow(r.Context(), chi.URLParam(r, "email"))
	h.writeMatrix(w, r, m, err)
}

func (h *Handler) ToggleColumn(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.ToggleColumn(r.Context(), chi.URLParam(r, "capability"))
	h.writeMatrix(w, r, m, err)
}

func (h *Handler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.ToggleAll(r.Context())
	h.writeMatrix(w, r, m, err)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	created, err := h.Service.CreateAccount(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	entry, err := h.Service.Rename(r.Context(), chi.URLParam(r, "email"), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Freeze(w http.ResponseWriter, r *http.Request) {
	var req FreezeRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if err := h.Service.Freeze(r.Context(), chi.URLParam(r, "email"), req.Frozen); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "email")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMatrix(w http.ResponseWriter, r *http.Request, m Matrix, err error) {
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, toMatrixResponse(m))
}
