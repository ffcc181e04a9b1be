package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/people-console/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockAuthService struct {
	sessions map[string]*internal.Session
	failWith error
}

func (m *mockAuthService) SignIn(ctx context.Context, dto LoginDTO) (*SignInResponse, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return &SignInResponse{AuthTokens: AuthTokens{AccessToken: "a", RefreshToken: "r"}, Session: &internal.Session{Email: dto.Email}}, nil
}

func (m *mockAuthService) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	return AuthTokens{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func (m *mockAuthService) SignOut(ctx context.Context, session *internal.Session) error {
	return nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*internal.Session, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	s, ok := m.sessions[token]
	if !ok {
		return nil, internal.ErrInvalidToken
	}
	return s, nil
}

var _ = Describe("Handler", func() {
	var (
		svc     *mockAuthService
		handler *Handler
		rbac    *RBACAuthorization
		reached bool
		final   http.Handler
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = &mockAuthService{sessions: map[string]*internal.Session{
			"hr-token":    {Email: "hr@fmx.com", Capabilities: map[string]bool{"hr_people": true}},
			"admin-token": {Email: "admin@fmx.com", Admin: true},
		}}
		handler = NewHandler(svc, logger)
		rbac = NewRBACAuthorization(logger)
		reached = false
		final = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/people", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	Describe("AuthMiddleware", func() {
		It("rejects a request without a bearer token", func() {
			rec := request(handler.AuthMiddleware(final), "")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		})

		It("returns 403 for a frozen user", func() {
			svc.failWith = internal.ErrUserFrozen
			rec := request(handler.AuthMiddleware(final), "hr-token")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Body.String()).To(ContainSubstring("USER_FROZEN"))
		})

		It("passes the session to the next handler", func() {
			var email string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s, _ := internal.SessionFromContext(r.Context())
				email = s.Email
			})
			request(handler.AuthMiddleware(next), "hr-token")
			Expect(email).To(Equal("hr@fmx.com"))
		})
	})

	Describe("RBACAuthorization", func() {
		It("lets a holder of the capability through", func() {
			h := handler.AuthMiddleware(rbac.Middleware("hr_people")(final))
			rec := request(h, "hr-token")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		})

		It("refuses a user without the capability", func() {
			h := handler.AuthMiddleware(rbac.Middleware("finance")(final))
			rec := request(h, "hr-token")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
		})

		It("requires every capability for admin routes", func() {
			h := handler.AuthMiddleware(rbac.RequireAdmin()(final))
			Expect(request(h, "hr-token").Code).To(Equal(http.StatusForbidden))
			Expect(request(h, "admin-token").Code).To(Equal(http.StatusOK))
		})
	})

	Describe("Login", func() {
		It("maps invalid credentials to 401", func() {
			svc.failWith = internal.ErrInvalidCredentials
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@fmx.com","password":"x"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects an empty body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(""))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
