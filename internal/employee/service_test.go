package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/internal/employee"
	"github.com/frahmantamala/people-console/internal/notify"
	"github.com/frahmantamala/people-console/internal/notify/notifytest"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/store/storetest"
	"github.com/frahmantamala/people-console/internal/timestatus"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockProvisioner struct {
	calls      [][2]string
	shouldFail bool
	failError  error
}

func (m *mockProvisioner) ProvisionEmployee(ctx context.Context, email, name string) (*permission.AccountCreated, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.calls = append(m.calls, [2]string{email, name})
	return &permission.AccountCreated{
		Password:    "s3cretPassw0",
		Credentials: "Login: " + email + "\nPassword: s3cretPassw0",
	}, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func completeDismissal() map[string]bool {
	items := map[string]bool{}
	for _, it := range employee.DismissalItems {
		items[it] = true
	}
	return items
}

var _ = Describe("Service", func() {
	var (
		ctx         context.Context
		recorder    *storetest.Recorder
		provisioner *mockProvisioner
		publisher   *recordingPublisher
		service     *employee.Service
		logger      *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		docs, _, err := storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		recorder = storetest.NewRecorder(docs)
		provisioner = &mockProvisioner{}
		publisher = &recordingPublisher{}
		now := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
		evaluator := timestatus.NewEvaluator(timestatus.ClockFunc(func() time.Time { return now }), time.UTC)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		service = employee.NewService(employee.Dependencies{
			Repo:      employee.NewRepository(recorder),
			Accounts:  provisioner,
			Publisher: publisher,
			Evaluator: evaluator,
			Company:   employee.Company{Name: "FMX Consulting Ltd", TaxID: "48.786.011/0001-75"},
			Logger:    logger,
		})
	})

	seed := func(id string, fields store.Fields) {
		Expect(recorder.Set(ctx, store.Employees, id, fields)).To(Succeed())
		recorder.Reset()
	}

	stored := func(id string) store.Fields {
		doc, err := recorder.GetByID(ctx, store.Employees, id)
		Expect(err).NotTo(HaveOccurred())
		return doc.Data
	}

	Describe("Create", func() {
		It("provisions the account and stores the record without the password", func() {
			// Given
			req := employee.CreateRequest{Profile: employee.Profile{
				Name:          "Ana Souza",
				Email:         "ana@fmx.com",
				AdmissionDate: "12/05/2025",
				Salary:        "R$ 3.200,00",
			}}

			// When
			created, err := service.Create(ctx, req)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Credentials).To(Equal("Login: ana@fmx.com\nPassword: s3cretPassw0"))
			Expect(provisioner.calls).To(Equal([][2]string{{"ana@fmx.com", "Ana Souza"}}))

			data := stored(created.Employee.ID)
			Expect(data["status"]).To(Equal("Hiring"))
			Expect(data["salary"]).To(Equal("3200,00"))
			Expect(data["trialPeriod1"]).To(Equal("26/06/2025"))
			Expect(data["trialPeriod2"]).To(Equal("10/08/2025"))
			Expect(data["city"]).To(Equal("São Paulo"))
			Expect(data).NotTo(HaveKey("password"))
			Expect(created.Employee.HiringProcess).To(HaveLen(16))
			Expect(created.Employee.SalaryText).To(Equal("R$ 3.200,00"))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeEmployeeCreated))
		})

		It("rejects a missing email before touching the account", func() {
			_, err := service.Create(ctx, employee.CreateRequest{Profile: employee.Profile{Name: "Ana"}})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(provisioner.calls).To(BeEmpty())
			Expect(recorder.WriteCount()).To(Equal(0))
		})

		It("stores nothing when the email already has an account", func() {
			provisioner.shouldFail = true
			provisioner.failError = internal.ErrEmailTaken

			_, err := service.Create(ctx, employee.CreateRequest{Profile: employee.Profile{Email: "ana@fmx.com"}})

			Expect(err).To(MatchError(internal.ErrEmailTaken))
			Expect(recorder.WriteCount()).To(Equal(0))
		})
	})

	Describe("Update", func() {
		It("merges profile fields and recomputes the trial periods", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "city": "Campinas", "status": "Hiring",
				"brands": map[string]any{"b2Hive": true}})

			v, err := service.Update(ctx, "e1", employee.UpdateRequest{
				"admissionDate": "01/06/2025",
				"salary":        "2.000,50",
				"status":        "Active",
				"brands":        map[string]any{"exnie": true},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(v.City).To(Equal("Campinas"))
			Expect(v.Salary).To(Equal("2000,50"))
			Expect(v.TrialPeriod1).To(Equal("16/07/2025"))
			Expect(v.TrialPeriod2).To(Equal("30/08/2025"))
			Expect(v.Status).To(Equal(timestatus.Hiring))
			Expect(v.Brands).To(Equal(map[string]bool{"b2Hive": true, "exnie": true, "fundsCap": false, "onEquity": false}))
		})

		It("reports an unknown employee", func() {
			_, err := service.Update(ctx, "missing", employee.UpdateRequest{"name": "X"})
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
		})

		It("rejects mistyped values before writing and keeps the list readable", func() {
			// Given
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active", "salary": "3000"})
			seed("e2", store.Fields{"name": "Bruno Dias", "status": "Active"})

			// When
			_, err := service.Update(ctx, "e1", employee.UpdateRequest{"salary": 3500, "brands": true})

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(recorder.WriteCount()).To(Equal(0))
			Expect(stored("e1")["salary"]).To(Equal("3000"))

			g, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Active).To(HaveLen(2))
		})

		It("rejects brands that are not booleans", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active"})

			_, err := service.Update(ctx, "e1", employee.UpdateRequest{"brands": map[string]any{"exnie": "yes"}})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(recorder.WriteCount()).To(Equal(0))
		})
	})

	Describe("List", func() {
		It("groups by effective status and sorts by name", func() {
			seed("e1", store.Fields{"name": "Zoe Lima", "status": "Hiring", "admissionDate": "02/05/2025"})
			seed("e2", store.Fields{"name": "bruno Dias", "status": "Hiring", "admissionDate": "01/03/2025"})
			seed("e3", store.Fields{"name": "Ana Souza", "status": "Active", "admissionDate": "01/01/2024"})
			seed("e4", store.Fields{"name": "Caio Reis", "status": "Hiring", "admissionDate": "10/06/2025"})
			seed("e5", store.Fields{"name": "Davi Melo", "status": "Deactivated", "admissionDate": "01/01/2020"})

			g, err := service.List(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(g.Onboarding).To(HaveLen(1))
			Expect(g.Onboarding[0].ID).To(Equal("e1"))
			Expect(g.Active).To(HaveLen(2))
			Expect(g.Active[0].ShortName).To(Equal("Ana Souza"))
			Expect(g.Active[1].ID).To(Equal("e2"))
			Expect(g.Active[1].Status).To(Equal(timestatus.Hiring))
			Expect(g.Hiring).To(HaveLen(1))
			Expect(g.Hiring[0].Contract.Status).To(Equal(timestatus.Undefined))
			Expect(g.Deactivated).To(HaveLen(1))
			Expect(recorder.WriteCount()).To(Equal(0))
		})
	})

	Describe("Dismissal", func() {
		It("opens the checklist once", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active"})

			v, err := service.OpenDismissal(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(v.DismissalProcess).To(HaveLen(10))

			_, err = service.OpenDismissal(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(recorder.WriteCount()).To(Equal(1))
		})

		It("does not write when the checklist is incomplete", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active",
				"dismissalProcess": map[string]any{"corporateCommunication": true}})

			_, err := service.FinalizeDismissal(ctx, "e1", employee.FinalizeRequest{DismissalDate: "30/06/2025"})

			Expect(err).To(MatchError(employee.ErrChecklistIncomplete))
			Expect(recorder.WriteCount()).To(Equal(0))
			Expect(stored("e1")["status"]).To(Equal("Active"))
		})

		It("deactivates with the homologation date ten days later", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active"})

			v, err := service.FinalizeDismissal(ctx, "e1", employee.FinalizeRequest{
				DismissalDate: "25/06/2025",
				Items:         completeDismissal(),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(v.Status).To(Equal(timestatus.Deactivated))
			Expect(v.EffectiveStatus).To(Equal(timestatus.Deactivated))
			data := stored("e1")
			Expect(data["dismissalDate"]).To(Equal("25/06/2025"))
			Expect(data["homologationDate"]).To(Equal("05/07/2025"))
			Expect(recorder.WriteCount()).To(Equal(1))
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeEmployeeDeactivated))
		})

		It("uses the stored dismissal date when none is given", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active", "dismissalDate": "01/07/2025"})

			v, err := service.FinalizeDismissal(ctx, "e1", employee.FinalizeRequest{Items: completeDismissal()})

			Expect(err).NotTo(HaveOccurred())
			Expect(v.HomologationDate).To(Equal("11/07/2025"))
		})

		It("rejects a dismissal date that is not a real day", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active"})

			_, err := service.FinalizeDismissal(ctx, "e1", employee.FinalizeRequest{DismissalDate: "31/02/2025", Items: completeDismissal()})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(recorder.WriteCount()).To(Equal(0))
			Expect(stored("e1")["status"]).To(Equal("Active"))
		})

		It("rejects finalizing twice", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Deactivated"})

			_, err := service.FinalizeDismissal(ctx, "e1", employee.FinalizeRequest{DismissalDate: "25/06/2025", Items: completeDismissal()})

			Expect(err).To(MatchError(internal.ErrInvalidTransition))
			Expect(recorder.WriteCount()).To(Equal(0))
		})

		It("leaves the record untouched when the store fails", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Active"})
			recorder.FailOn(storetest.OpUpdate, errors.New("connection reset"))

			_, err := service.FinalizeDismissal(ctx, "e1", employee.FinalizeRequest{DismissalDate: "25/06/2025", Items: completeDismissal()})

			Expect(err).To(HaveOccurred())
			Expect(stored("e1")["status"]).To(Equal("Active"))
			Expect(publisher.events).To(BeEmpty())
		})
	})

	Describe("Hiring checklist", func() {
		It("sets the given steps", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "status": "Hiring"})

			v, err := service.UpdateHiringChecklist(ctx, "e1", employee.ChecklistUpdate{Items: map[string]bool{"aso": true}})

			Expect(err).NotTo(HaveOccurred())
			Expect(v.HiringProcess["aso"]).To(BeTrue())
			Expect(v.HiringProcess["cpf"]).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("removes only the employee record", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "email": "ana@fmx.com"})

			Expect(service.Delete(ctx, "e1")).To(Succeed())

			Expect(recorder.Writes).To(HaveLen(1))
			Expect(recorder.Writes[0].Collection).To(Equal(store.Employees))
			_, err := service.Get(ctx, "e1")
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
		})
	})

	Describe("Digest", func() {
		It("mails the week's events to every recipient", func() {
			seed("e1", store.Fields{"name": "Ana Souza", "birthDate": "01/05/1990"})
			mailer := &notifytest.Mailer{}
			job := employee.NewDigestJob(service, mailer, []notify.Recipient{{Email: "hr@fmx.com"}, {Email: "ops@fmx.com"}}, logger)

			Expect(job.Run(ctx)).To(Succeed())

			Expect(mailer.Count()).To(Equal(2))
			Expect(mailer.Messages[0].Template).To(Equal(notify.TemplateDigest))
			Expect(mailer.Messages[0].Vars["events"]).To(Equal("Birthday of Ana Souza on 01/05/2025"))
			Expect(mailer.Messages[0].Vars["from"]).To(Equal("28/04/2025"))
		})

		It("sends nothing on a quiet week", func() {
			mailer := &notifytest.Mailer{}
			job := employee.NewDigestJob(service, mailer, []notify.Recipient{{Email: "hr@fmx.com"}}, logger)

			Expect(job.Run(ctx)).To(Succeed())
			Expect(mailer.Count()).To(Equal(0))
		})
	})
})
