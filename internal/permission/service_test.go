package permission_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/store/storetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockIdentity struct {
	accounts   map[string]string
	shouldFail bool
	failError  error
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{accounts: map[string]string{}}
}

func (m *mockIdentity) CreateAccount(ctx context.Context, email, password string) error {
	if m.shouldFail {
		return m.failError
	}
	if _, ok := m.accounts[email]; ok {
		return internal.ErrEmailTaken
	}
	m.accounts[email] = password
	return nil
}

func (m *mockIdentity) ChangeEmail(ctx context.Context, oldEmail, newEmail string) error {
	if m.shouldFail {
		return m.failError
	}
	m.accounts[newEmail] = m.accounts[oldEmail]
	delete(m.accounts, oldEmail)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, e events.Event) error {
	return errors.New("bus closed")
}

type fixedPasswords string

func (f fixedPasswords) Generate() (string, error) { return string(f), nil }

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		recorder *storetest.Recorder
		identity *mockIdentity
		service  *permission.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		docs, _, err := storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		recorder = storetest.NewRecorder(docs)
		identity = newMockIdentity()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = permission.NewService(permission.NewRepository(recorder), identity, fixedPasswords("Abc123!@#xyz"), events.Discard, logger)
	})

	seed := func(email string, grant bool) {
		Expect(recorder.Set(ctx, store.Permissions, email, permission.ToDocument(permission.NewEntry(email, email, grant)))).To(Succeed())
	}

	Describe("CreateAccount", func() {
		It("creates an admin with every capability and returns credentials", func() {
			// When
			created, err := service.CreateAccount(ctx, permission.CreateAccountRequest{Email: "ana@fmx.com", Name: "Ana", Type: "Admin"})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Credentials).To(Equal("Login: ana@fmx.com\nPassword: Abc123!@#xyz"))
			Expect(identity.accounts).To(HaveKeyWithValue("ana@fmx.com", "Abc123!@#xyz"))

			entry, err := service.Get(ctx, "ana@fmx.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.IsAdmin()).To(BeTrue())
			Expect(entry.Frozen).To(BeFalse())
		})

		It("still creates the account when the event cannot be published", func() {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			service = permission.NewService(permission.NewRepository(recorder), identity, fixedPasswords("Abc123!@#xyz"), failingPublisher{}, logger)

			created, err := service.CreateAccount(ctx, permission.CreateAccountRequest{Email: "caio@fmx.com", Name: "Caio", Type: "User"})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Entry.Email).To(Equal("caio@fmx.com"))
			Expect(identity.accounts).To(HaveKey("caio@fmx.com"))
		})

		It("creates a user with nothing granted", func() {
			_, err := service.CreateAccount(ctx, permission.CreateAccountRequest{Email: "bia@fmx.com", Name: "Bia", Type: "User"})
			Expect(err).NotTo(HaveOccurred())

			entry, err := service.Get(ctx, "bia@fmx.com")
			Expect(err).NotTo(HaveOccurred())
			for _, c := range permission.All() {
				Expect(entry.Has(c)).To(BeFalse())
			}
		})

		It("writes no permission row when the identity is rejected", func() {
			identity.accounts["ana@fmx.com"] = "old"

			_, err := service.CreateAccount(ctx, permission.CreateAccountRequest{Email: "ana@fmx.com", Name: "Ana"})

			Expect(err).To(MatchError(internal.ErrEmailTaken))
			Expect(recorder.WriteCount()).To(Equal(0))
		})

		It("requires email and name", func() {
			_, err := service.CreateAccount(ctx, permission.CreateAccountRequest{Email: "ana@fmx.com"})
			Expect(err).To(HaveOccurred())
			Expect(identity.accounts).To(BeEmpty())
		})

		It("names employee accounts N/A when no name is given", func() {
			_, err := service.ProvisionEmployee(ctx, "new@fmx.com", "")
			Expect(err).NotTo(HaveOccurred())

			entry, err := service.Get(ctx, "new@fmx.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Name).To(Equal("N/A"))
			Expect(entry.IsAdmin()).To(BeFalse())
		})
	})

	Describe("toggles", func() {
		BeforeEach(func() {
			seed("a@fmx.com", true)
			seed("b@fmx.com", false)
			recorder.Reset()
		})

		It("persists a column toggle on every row", func() {
			m, err := service.ToggleColumn(ctx, "finance")
			Expect(err).NotTo(HaveOccurred())
			Expect(m[1].Has(permission.Finance)).To(BeTrue())
			Expect(recorder.WriteCount()).To(Equal(2))

			stored, err := service.Get(ctx, "b@fmx.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Has(permission.Finance)).To(BeTrue())
		})

		It("rejects an unknown column before writing", func() {
			_, err := service.ToggleColumn(ctx, "payroll")
			Expect(err).To(MatchError(permission.ErrUnknownCapability))
			Expect(recorder.WriteCount()).To(Equal(0))
		})

		It("persists only the toggled row for a cell", func() {
			_, err := service.ToggleCell(ctx, "b@fmx.com", "hr_people")
			Expect(err).NotTo(HaveOccurred())
			Expect(recorder.Writes).To(HaveLen(1))
			Expect(recorder.Writes[0].ID).To(Equal("b@fmx.com"))
		})

		It("clears everything when the whole matrix is set", func() {
			_, err := service.ToggleAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			m, err := service.ToggleAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(m[0].Has(permission.Finance)).To(BeFalse())
			Expect(m[1].Has(permission.HRPeople)).To(BeFalse())
		})
	})

	Describe("BulkUpdate", func() {
		It("overwrites each row in full", func() {
			seed("a@fmx.com", true)

			m, err := service.BulkUpdate(ctx, permission.BulkUpdateRequest{Entries: []permission.EntryInput{
				{Email: "a@fmx.com", Name: "A", Capabilities: map[string]bool{"finance": true}},
			}})

			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(HaveLen(1))
			Expect(m[0].Has(permission.Finance)).To(BeTrue())
			Expect(m[0].Has(permission.HRPeople)).To(BeFalse())
		})

		It("stops at the first rejected write", func() {
			recorder.FailOn(storetest.OpSet, errors.New("permission denied"))
			_, err := service.BulkUpdate(ctx, permission.BulkUpdateRequest{Entries: []permission.EntryInput{{Email: "a@fmx.com"}}})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Rename", func() {
		It("changes the identity, writes the new key and drops the old one", func() {
			seed("old@fmx.com", false)
			identity.accounts["old@fmx.com"] = "pw"

			entry, err := service.Rename(ctx, "old@fmx.com", permission.RenameRequest{NewEmail: "new@fmx.com"})

			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Email).To(Equal("new@fmx.com"))
			Expect(identity.accounts).To(HaveKey("new@fmx.com"))
			_, err = service.Get(ctx, "old@fmx.com")
			Expect(err).To(MatchError(permission.ErrPermissionNotFound))
			_, err = service.Get(ctx, "new@fmx.com")
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the old row when the identity refuses", func() {
			seed("old@fmx.com", false)
			identity.shouldFail = true
			identity.failError = internal.ErrEmailTaken
			recorder.Reset()

			_, err := service.Rename(ctx, "old@fmx.com", permission.RenameRequest{NewEmail: "taken@fmx.com"})

			Expect(err).To(MatchError(internal.ErrEmailTaken))
			Expect(recorder.WriteCount()).To(Equal(0))
		})
	})

	Describe("Freeze and Delete", func() {
		It("records the frozen flag only", func() {
			seed("a@fmx.com", true)
			Expect(service.Freeze(ctx, "a@fmx.com", true)).To(Succeed())

			entry, err := service.Get(ctx, "a@fmx.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Frozen).To(BeTrue())
			Expect(entry.IsAdmin()).To(BeTrue())
		})

		It("fails to freeze an unknown user", func() {
			Expect(service.Freeze(ctx, "ghost@fmx.com", true)).To(MatchError(permission.ErrPermissionNotFound))
		})

		It("removes the row but not the identity", func() {
			seed("a@fmx.com", true)
			identity.accounts["a@fmx.com"] = "pw"

			Expect(service.Delete(ctx, "a@fmx.com")).To(Succeed())

			_, err := service.Get(ctx, "a@fmx.com")
			Expect(err).To(MatchError(permission.ErrPermissionNotFound))
			Expect(identity.accounts).To(HaveKey("a@fmx.com"))
		})
	})
})
