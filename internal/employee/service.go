package employee

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/common/validation"
	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/timestatus"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, fields store.Fields) (string, error)
	Update(ctx context.Context, id string, fields store.Fields) error
	Delete(ctx context.Context, id string) error
}

// AccountProvisioner opens the sign-in identity and the empty permission
// entry of a new employee.
type AccountProvisioner interface {
	ProvisionEmployee(ctx context.Context, email, name string) (*permission.AccountCreated, error)
}

type Service struct {
	repo      RepositoryAPI
	accounts  AccountProvisioner
	publisher events.Publisher
	evaluator *timestatus.Evaluator
	messages  *Messages
	company   Company
	logger    *slog.Logger
}

type Dependencies struct {
	Repo      RepositoryAPI
	Accounts  AccountProvisioner
	Publisher events.Publisher
	Evaluator *timestatus.Evaluator
	Messages  *Messages
	Company   Company
	Logger    *slog.Logger
}

func NewService(d Dependencies) *Service {
	if d.Publisher == nil {
		d.Publisher = events.Discard
	}
	if d.Evaluator == nil {
		d.Evaluator = timestatus.NewEvaluator(nil, nil)
	}
	if d.Messages == nil {
		d.Messages = DefaultMessages()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{
		repo:      d.Repo,
		accounts:  d.Accounts,
		publisher: d.Publisher,
		evaluator: d.Evaluator,
		messages:  d.Messages,
		company:   d.Company,
		logger:    d.Logger,
	}
}

func (s *Service) view(e Employee) View {
	fields, _ := store.Encode(e.Profile)
	missing := validation.MissingFields(fields, requiredFields)
	return View{
		Employee:        e,
		EffectiveStatus: s.evaluator.DerivedStatus(e.Status, e.AdmissionDate),
		ShortName:       ShortName(e.Name),
		Age:             s.evaluator.AgeText(e.BirthDate),
		Contract:        s.evaluator.ContractStatus(e.AdmissionDate),
		WorkDuration:    s.evaluator.WorkDuration(e.AdmissionDate),
		SalaryText:      FormatBRL(e.Salary),
		MissingFields:   missing,
		Complete:        len(missing) == 0,
	}
}

// List groups every employee by effective status.
func (s *Service) List(ctx context.Context) (*Groups, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	g := &Groups{
		Active:      []View{},
		Onboarding:  []View{},
		Hiring:      []View{},
		Deactivated: []View{},
	}
	for _, e := range all {
		v := s.view(e)
		switch v.EffectiveStatus {
		case timestatus.Active:
			g.Active = append(g.Active, v)
		case timestatus.Onboarding:
			g.Onboarding = append(g.Onboarding, v)
		case timestatus.Deactivated:
			g.Deactivated = append(g.Deactivated, v)
		default:
			g.Hiring = append(g.Hiring, v)
		}
	}
	for _, group := range [][]View{g.Active, g.Onboarding, g.Hiring, g.Deactivated} {
		sortByName(group)
	}
	return g, nil
}

func sortByName(vs []View) {
	sort.SliceStable(vs, func(i, j int) bool {
		return strings.ToLower(vs[i].Name) < strings.ToLower(vs[j].Name)
	})
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*e)
	return &v, nil
}

// Create opens the employee's account and permission entry, then stores the
// record. The generated password is only returned in the credentials text.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.ProvisionEmployee(ctx, req.Email, req.Name)
	if err != nil {
		s.logger.Warn("failed to provision employee account", "email", req.Email, "error", err)
		return nil, err
	}

	now := s.evaluator.Now()
	e := Employee{
		Profile:       req.Profile.WithDefaults(),
		Status:        timestatus.Hiring,
		HiringProcess: NewChecklist(HiringItems),
		CreatedAt:     now.UTC().Format(time.RFC3339),
	}
	fields, err := ToDocument(e)
	if err != nil {
		return nil, err
	}
	fields = prepare(fields, s.evaluator)

	id, err := s.repo.Create(ctx, fields)
	if err != nil {
		// the account and permission entry stay; HR can retry with the same email
		s.logger.Error("failed to store employee after account creation", "email", req.Email, "error", err)
		return nil, err
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("employee created", "employee_id", id)
	s.publish(ctx, events.NewEmployeeCreatedEvent(id, req.Email))

	return &Created{Employee: s.view(*stored), Credentials: account.Credentials}, nil
}

// Update merges the given profile fields into the record.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := prepare(req.fields(), s.evaluator)
	if raw, ok := patch["brands"].(map[string]any); ok {
		brands := make(map[string]bool, len(Brands))
		for _, b := range Brands {
			brands[b] = current.Brands[b]
			if v, ok := raw[b].(bool); ok {
				brands[b] = v
			}
		}
		patch["brands"] = brands
	}
	if len(patch) == 0 {
		v := s.view(*current)
		return &v, nil
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the record only. The account and permission entry are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return err
	}
	return nil
}

func (s *Service) UpdateHiringChecklist(ctx context.Context, id string, req ChecklistUpdate) (*View, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := current.HiringProcess.Apply(HiringItems, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, store.Fields{"hiringProcess": list}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// OpenDismissal starts the dismissal checklist. An already open checklist is
// returned as it is.
func (s *Service) OpenDismissal(ctx context.Context, id string) (*View, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.DismissalProcess != nil {
		v := s.view(*current)
		return &v, nil
	}
	if err := s.repo.Update(ctx, id, store.Fields{"dismissalProcess": NewChecklist(DismissalItems)}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateDismissal(ctx context.Context, id string, req DismissalUpdate) (*View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := current.DismissalProcess.Apply(DismissalItems, req.Items)
	if err != nil {
		return nil, err
	}
	patch := store.Fields{"dismissalProcess": list}
	if req.DismissalDate != "" {
		patch["dismissalDate"] = req.DismissalDate
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// FinalizeDismissal deactivates the employee once every dismissal step is
// done. The homologation date is ten days after the dismissal date.
func (s *Service) FinalizeDismissal(ctx context.Context, id string, req FinalizeRequest) (*View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == timestatus.Deactivated {
		return nil, ErrAlreadyDeactivated
	}

	list, err := current.DismissalProcess.Apply(DismissalItems, req.Items)
	if err != nil {
		return nil, err
	}
	if !list.Complete(DismissalItems) {
		return nil, ErrChecklistIncomplete
	}

	dismissal := req.DismissalDate
	if dismissal == "" {
		dismissal = current.DismissalDate
	}
	if dismissal == "" {
		return nil, internal.NewValidationFieldError("dismissalDate", "dismissalDate is required", internal.ErrCodeValidationFailed)
	}
	homologation := s.evaluator.HomologationDate(dismissal)

	patch := store.Fields{
		"status":           string(timestatus.Deactivated),
		"dismissalDate":    dismissal,
		"homologationDate": homologation,
		"dismissalProcess": list,
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		s.logger.Error("failed to finalize dismissal", "employee_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("employee deactivated", "employee_id", id, "dismissal_date", dismissal)
	s.publish(ctx, events.NewEmployeeDeactivatedEvent(id, dismissal, homologation))
	return s.Get(ctx, id)
}

// MonthEvents lists the calendar events of month. A zero month means the current one.
func (s *Service) MonthEvents(ctx context.Context, month time.Month) (*MonthEventsResponse, error) {
	if month == 0 {
		month = s.evaluator.Today().Month()
	}
	if month < time.January || month > time.December {
		return nil, internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeValidationFailed)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	evs := MonthEvents(all, month, s.evaluator.Location())
	if evs == nil {
		evs = []Event{}
	}
	return &MonthEventsResponse{Month: int(month), Events: evs}, nil
}

// WeekEvents lists the events of the current week.
func (s *Service) WeekEvents(ctx context.Context) (*WeekEventsResponse, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.evaluator.Now()
	loc := s.evaluator.Location()
	from, to := WeekOf(now, loc)
	notices := WeekEvents(all, now, loc)
	if notices == nil {
		notices = []Notice{}
	}
	return &WeekEventsResponse{
		From:    timestatus.FormatDate(from),
		To:      timestatus.FormatDate(to),
		Notices: notices,
	}, nil
}

func (s *Service) Message(ctx context.Context, id string, kind MessageKind) (*Message, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.messages.Render(kind, *e)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) AdmissionForm(ctx context.Context, id string) (*AdmissionForm, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f := BuildAdmissionForm(*e, s.company)
	return &f, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}
