package permission

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/common/validation"
	"github.com/frahmantamala/people-console/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, email string) (*Entry, error)
	Save(ctx context.Context, e Entry) error
	SetFrozen(ctx context.Context, email string, frozen bool) error
	Delete(ctx context.Context, email string) error
}

// IdentityAPI is the sign-in account store.
type IdentityAPI interface {
	CreateAccount(ctx context.Context, email, password string) error
	ChangeEmail(ctx context.Context, oldEmail, newEmail string) error
}

type Service struct {
	repo      RepositoryAPI
	identity  IdentityAPI
	passwords PasswordGenerator
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, identity IdentityAPI, passwords PasswordGenerator, publisher events.Publisher, logger *slog.Logger) *Service {
	if passwords == nil {
		passwords = RandomPasswords{}
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{
		repo:      repo,
		identity:  identity,
		passwords: passwords,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context) (Matrix, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, err
	}
	return NewMatrix(entries), nil
}

// Get is also the frozen gate consulted before sign-in.
func (s *Service) Get(ctx context.Context, email string) (*Entry, error) {
	return s.repo.Get(ctx, email)
}

// BulkUpdate overwrites every given row. Rows are written in order and the
// first failure stops the run.
func (s *Service) BulkUpdate(ctx context.Context, req BulkUpdateRequest) (Matrix, error) {
	entries, err := req.ToEntries()
	if err != nil {
		return nil, err
	}
	if err := s.saveAll(ctx, entries); err != nil {
		return nil, err
	}
	s.logger.Info("permissions updated", "rows", len(entries))
	return s.List(ctx)
}

func (s *Service) saveAll(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if err := s.repo.Save(ctx, e); err != nil {
			s.logger.Error("failed to save permission entry", "email", e.Email, "error", err)
			return err
		}
	}
	return nil
}

func (s *Service) ToggleCell(ctx context.Context, email, capability string) (Matrix, error) {
	c, err := Parse(capability)
	if err != nil {
		return nil, err
	}
	m, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.ToggleCell(email, c); err != nil {
		return nil, err
	}
	i, _ := m.Find(email)
	if err := s.repo.Save(ctx, m[i]); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ToggleRow(ctx context.Context, email string) (Matrix, error) {
	m, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.ToggleRow(email); err != nil {
		return nil, err
	}
	i, _ := m.Find(email)
	if err := s.repo.Save(ctx, m[i]); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ToggleColumn(ctx context.Context, capability string) (Matrix, error) {
	c, err := Parse(capability)
	if err != nil {
		return nil, err
	}
	m, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m.ToggleColumn(c)
	if err := s.saveAll(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ToggleAll(ctx context.Context) (Matrix, error) {
	m, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m.ToggleAll()
	if err := s.saveAll(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateAccount creates the sign-in identity, then its permission row. An
// Admin account gets every capability, a User account none. When the identity
// is rejected nothing is written.
func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountCreated, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	admin := req.Type == AccountAdmin

	password, err := s.passwords.Generate()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate password", err)
	}

	if err := s.identity.CreateAccount(ctx, req.Email, password); err != nil {
		s.logger.Warn("identity rejected new account", "email", req.Email, "error", err)
		return nil, err
	}

	entry := NewEntry(req.Email, req.Name, admin)
	if err := s.repo.Save(ctx, entry); err != nil {
		s.logger.Error("account created without permission entry", "email", req.Email, "error", err)
		return nil, err
	}

	s.logger.Info("console account created", "email", req.Email, "admin", admin)
	s.publish(ctx, events.NewAccountCreatedEvent(req.Email, admin))

	return &AccountCreated{
		Entry:       entry,
		Password:    password,
		Credentials: Credentials(req.Email, password),
	}, nil
}

// ProvisionEmployee opens a zero-capability account for a new employee.
func (s *Service) ProvisionEmployee(ctx context.Context, email, name string) (*AccountCreated, error) {
	if strings.TrimSpace(name) == "" {
		name = "N/A"
	}
	return s.CreateAccount(ctx, CreateAccountRequest{Email: email, Name: name, Type: AccountUser})
}

// Rename moves a user to a new email: identity first, then the new row, then
// removal of the old row.
func (s *Service) Rename(ctx context.Context, oldEmail string, req RenameRequest) (*Entry, error) {
	v := validation.NewValidator()
	v.Field("newEmail", req.NewEmail).Required().Email()
	if err := v.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.repo.Get(ctx, oldEmail)
	if err != nil {
		return nil, err
	}
	newEmail := strings.TrimSpace(req.NewEmail)
	if newEmail == oldEmail {
		return entry, nil
	}

	if err := s.identity.ChangeEmail(ctx, oldEmail, newEmail); err != nil {
		s.logger.Warn("identity rejected email change", "email", oldEmail, "new_email", newEmail, "error", err)
		return nil, err
	}

	renamed := entry.clone()
	renamed.Email = newEmail
	if err := s.repo.Save(ctx, renamed); err != nil {
		s.logger.Error("failed to write renamed permission entry", "email", newEmail, "error", err)
		return nil, err
	}
	if err := s.repo.Delete(ctx, oldEmail); err != nil {
		s.logger.Error("failed to remove old permission entry", "email", oldEmail, "error", err)
		return nil, err
	}

	s.logger.Info("console user renamed", "email", oldEmail, "new_email", newEmail)
	return &renamed, nil
}

func (s *Service) Freeze(ctx context.Context, email string, frozen bool) error {
	if err := s.repo.SetFrozen(ctx, email, frozen); err != nil {
		return err
	}
	s.logger.Info("console user freeze changed", "email", email, "frozen", frozen)
	return nil
}

// Delete removes the permission row only. The sign-in identity stays.
func (s *Service) Delete(ctx context.Context, email string) error {
	if err := s.repo.Delete(ctx, email); err != nil {
		s.logger.Error("failed to delete permission entry", "email", email, "error", err)
		return err
	}
	s.logger.Info("permission entry deleted", "email", email)
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.EventType(), "error", err)
	}
}
