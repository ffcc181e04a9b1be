package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/transport"
)

// RBACAuthorization gates routes on the capabilities of the request session.
type RBACAuthorization struct {
	*transport.BaseHandler
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		logger:      logger,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, capability string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := ra.SessionOrAbort(w, r)
		if !ok {
			return
		}

		if !session.Can(capability) {
			ra.logger.WarnContext(r.Context(), "access denied: missing capability",
				"email", session.Email,
				"required_capability", capability)
			ra.HandleServiceError(w, r, internal.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Middleware requires one capability.
func (ra *RBACAuthorization) Middleware(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, capability)
	}
}

// RequireAdmin requires every capability.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := ra.SessionOrAbort(w, r)
			if !ok {
				return
			}

			if !session.Admin {
				ra.logger.WarnContext(r.Context(), "access denied: admin required", "email", session.Email)
				ra.HandleServiceError(w, r, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
