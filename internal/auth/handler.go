package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/transport"
	"github.com/frahmantamala/people-console/pkg/logger"
)

type ServiceAPI interface {
	SignIn(ctx context.Context, dto LoginDTO) (*SignInResponse, error)
	RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error)
	SignOut(ctx context.Context, session *internal.Session) error
	Authenticate(ctx context.Context, token string) (*internal.Session, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.SignIn(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.SessionOrAbort(w, r)
	if !ok {
		return
	}

	if err := h.Service.SignOut(r.Context(), session); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user with their capabilities.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := h.SessionOrAbort(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, session)
}

// AuthMiddleware resolves the bearer token into a session on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, internal.ErrInvalidToken)
			return
		}

		session, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := internal.ContextWithSession(r.Context(), session)
		ctx = logger.With(ctx, "user", session.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
