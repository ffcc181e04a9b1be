package navigation

import (
	"net/http"

	"github.com/frahmantamala/people-console/internal/transport"
)

type Response struct {
	Menus []Menu `json:"menus"`
}

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.SessionOrAbort(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, Response{Menus: Build(s)})
}
