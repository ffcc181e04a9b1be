package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/transport"
)

// RecoveryMiddleware turns a panic into a 500 AppError body. The panic value stays in the log.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					status, body := internal.NewInternalError("internal server error", fmt.Errorf("panic: %v", rec)).ToHTTPResponse()
					base.WriteJSON(w, status, body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
