package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/people-console/internal/auth"
	"github.com/frahmantamala/people-console/internal/candidate"
	"github.com/frahmantamala/people-console/internal/employee"
	"github.com/frahmantamala/people-console/internal/navigation"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/scheduling"
	"github.com/frahmantamala/people-console/internal/transport/middleware"
	"github.com/frahmantamala/people-console/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers collects every route handler. A nil handler leaves its routes out.
type Handlers struct {
	Auth       *auth.Handler
	Candidate  *candidate.Handler
	Employee   *employee.Handler
	Scheduling *scheduling.Handler
	Permission *permission.Handler
	Navigation *navigation.Handler
	Health     *HealthHandler
	OpenAPI    *swagger.Document
}

type RouterConfig struct {
	AllowedOrigins string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	rbac := auth.NewRBACAuthorization(logger)
	hrPeople := rbac.Middleware(string(permission.HRPeople))

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if h.OpenAPI != nil {
		router.Get("/openapi.yml", h.OpenAPI.ServeHTTP)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		// public: the application form and the booking page
		r.Route("/public", func(pub chi.Router) {
			if h.Candidate != nil {
				pub.Post("/candidates", h.Candidate.Submit)
			}
			if h.Scheduling != nil {
				pub.Get("/slots", h.Scheduling.AvailableSlots)
				pub.Post("/interviews", h.Scheduling.Book)
			}
		})

		if h.Auth == nil {
			return
		}
		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/me", h.Auth.Me)
			if h.Navigation != nil {
				pr.Get("/navigation", h.Navigation.GetNavigation)
			}

			pr.Group(func(hr chi.Router) {
				hr.Use(hrPeople)
				registerPeopleRoutes(hr, h)
			})

			if h.Permission != nil {
				pr.Group(func(adm chi.Router) {
					adm.Use(rbac.RequireAdmin())
					adm.Route("/permissions", func(pm chi.Router) {
						pm.Get("/", h.Permission.GetMatrix)
						pm.Put("/", h.Permission.BulkUpdate)
						pm.Post("/toggle", h.Permission.ToggleCell)
						pm.Post("/toggle-all", h.Permission.ToggleAll)
						pm.Post("/columns/{capability}/toggle", h.Permission.ToggleColumn)
						pm.Post("/accounts", h.Permission.CreateAccount)
						pm.Post("/{email}/toggle", h.Permission.ToggleRow)
						pm.Put("/{email}/email", h.Permission.Rename)
						pm.Put("/{email}/frozen", h.Permission.Freeze)
						pm.Delete("/{email}", h.Permission.Delete)
					})
				})
			}
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"route not found"}`))
	})
}

// registerPeopleRoutes mounts the hr_people pages: candidates, employees and scheduling.
func registerPeopleRoutes(pr chi.Router, h Handlers) {
	if h.Candidate != nil {
		pr.Route("/candidates", func(cr chi.Router) {
			cr.Get("/", h.Candidate.List)
			cr.Get("/{id}", h.Candidate.Get)
			cr.Post("/{id}/decline", h.Candidate.Decline)
			cr.Post("/{id}/hold", h.Candidate.Hold)
			cr.Post("/{id}/interview", h.Candidate.MoveToInterview)
			cr.Post("/{id}/restore", h.Candidate.Restore)
			cr.Post("/{id}/approve", h.Candidate.Approve)
			cr.Post("/{id}/invite", h.Candidate.SendInvite)
			cr.Get("/{id}/interview-link", h.Candidate.InterviewLink)
		})
	}

	if h.Employee != nil {
		pr.Route("/employees", func(er chi.Router) {
			er.Get("/", h.Employee.List)
			er.Post("/", h.Employee.Create)
			er.Get("/events", h.Employee.MonthEvents)
			er.Get("/events/week", h.Employee.WeekEvents)
			er.Get("/{id}", h.Employee.Get)
			er.Patch("/{id}", h.Employee.Update)
			er.Delete("/{id}", h.Employee.Delete)
			er.Put("/{id}/hiring-process", h.Employee.UpdateHiringChecklist)
			er.Post("/{id}/dismissal", h.Employee.OpenDismissal)
			er.Put("/{id}/dismissal", h.Employee.UpdateDismissal)
			er.Post("/{id}/dismissal/finalize", h.Employee.FinalizeDismissal)
			er.Get("/{id}/messages/{kind}", h.Employee.Message)
			er.Get("/{id}/admission-form", h.Employee.AdmissionForm)
		})
	}

	if h.Scheduling != nil {
		pr.Route("/slots", func(sr chi.Router) {
			sr.Get("/", h.Scheduling.ListSlots)
			sr.Post("/", h.Scheduling.AddSlot)
			sr.Put("/{key}", h.Scheduling.UpdateSlot)
			sr.Delete("/{key}", h.Scheduling.DeleteSlot)
		})
		pr.Route("/interviews", func(ir chi.Router) {
			ir.Get("/", h.Scheduling.ListInterviews)
			ir.Delete("/{candidateID}", h.Scheduling.CancelInterview)
		})
	}
}
