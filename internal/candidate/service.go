package candidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/internal/files"
	"github.com/frahmantamala/people-console/internal/notify"
	"github.com/frahmantamala/people-console/internal/scheduling"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/timestatus"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]Candidate, error)
	Get(ctx context.Context, id string) (*Candidate, error)
	Create(ctx context.Context, c Candidate) (string, error)
	SetStatus(ctx context.Context, id string, status Status) error
	Promote(ctx context.Context, id string, employee func(candidate store.Fields) store.Fields) error
}

// InterviewIndex gives the booked interview of each candidate.
type InterviewIndex interface {
	InterviewsByCandidate(ctx context.Context) (map[string]scheduling.Interview, error)
}

type Service struct {
	repo        RepositoryAPI
	interviews  InterviewIndex
	files       files.FileStore
	mailer      notify.Mailer
	publisher   events.Publisher
	evaluator   *timestatus.Evaluator
	linkBaseURL string
	logger      *slog.Logger
}

type Dependencies struct {
	Repo        RepositoryAPI
	Interviews  InterviewIndex
	Files       files.FileStore
	Mailer      notify.Mailer
	Publisher   events.Publisher
	Evaluator   *timestatus.Evaluator
	LinkBaseURL string
	Logger      *slog.Logger
}

func NewService(d Dependencies) *Service {
	if d.Publisher == nil {
		d.Publisher = events.Discard
	}
	if d.Evaluator == nil {
		d.Evaluator = timestatus.NewEvaluator(nil, nil)
	}
	return &Service{
		repo:        d.Repo,
		interviews:  d.Interviews,
		files:       d.Files,
		mailer:      d.Mailer,
		publisher:   d.Publisher,
		evaluator:   d.Evaluator,
		linkBaseURL: d.LinkBaseURL,
		logger:      d.Logger,
	}
}

// List returns the candidates split into the interview, open and declined groups.
func (s *Service) List(ctx context.Context) (*Groups, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list candidates", "error", err)
		return nil, err
	}
	booked, err := s.interviews.InterviewsByCandidate(ctx)
	if err != nil {
		s.logger.Error("failed to load scheduled interviews", "error", err)
		return nil, err
	}

	groups := &Groups{Interview: []View{}, Candidates: []View{}, Declined: []View{}}
	for _, c := range all {
		v := s.view(c, booked)
		switch c.Status {
		case StatusInterview:
			groups.Interview = append(groups.Interview, v)
		case StatusCandidates, StatusOnHold:
			groups.Candidates = append(groups.Candidates, v)
		case StatusDeclined:
			groups.Declined = append(groups.Declined, v)
		}
	}

	sort.SliceStable(groups.Interview, func(i, j int) bool {
		return groups.Interview[i].InterviewDate < groups.Interview[j].InterviewDate
	})
	sort.SliceStable(groups.Candidates, func(i, j int) bool {
		return groups.Candidates[i].RegistrationDate < groups.Candidates[j].RegistrationDate
	})
	return groups, nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	booked, err := s.interviews.InterviewsByCandidate(ctx)
	if err != nil {
		return nil, err
	}
	v := s.view(*c, booked)
	return &v, nil
}

// view merges the booked interview over the candidate's own link.
func (s *Service) view(c Candidate, booked map[string]scheduling.Interview) View {
	v := View{Candidate: c, Age: s.evaluator.AgeText(c.BirthDate)}
	if i, ok := booked[c.ID]; ok {
		v.InterviewDate = i.Start
		if i.Link != "" {
			v.InterviewLink = i.Link
		}
	}
	return v
}

// Submit stores an application from the public form. The CV is required and
// checked before any upload.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Candidate, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	c := Candidate{
		Application:      sub.Application,
		Status:           StatusCandidates,
		RegistrationDate: s.evaluator.Now().UTC().Format(time.RFC3339),
	}

	cv, err := s.files.Put(ctx, "cv", *sub.CV)
	if err != nil {
		s.logger.Error("failed to store cv", "email", sub.Email, "error", err)
		return nil, err
	}
	c.CV = cv

	if sub.Photo != nil {
		photo, err := s.files.Put(ctx, "photo", *sub.Photo)
		if err != nil {
			s.logger.Error("failed to store photo", "email", sub.Email, "error", err)
			s.discardUploads(ctx, cv)
			return nil, err
		}
		c.Photo = photo
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error("failed to create candidate", "email", sub.Email, "error", err)
		s.discardUploads(ctx, c.CV, c.Photo)
		return nil, err
	}
	c.ID = id

	s.logger.Info("application received", "candidate_id", id)
	return &c, nil
}

// discardUploads removes files of an application that was not stored.
func (s *Service) discardUploads(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := s.files.Delete(ctx, ref); err != nil {
			s.logger.Warn("failed to remove orphaned upload", "ref", ref, "error", err)
		}
	}
}

func (s *Service) Decline(ctx context.Context, id string) (*ActionResult, error) {
	return s.apply(ctx, id, ActionDecline)
}

// Hold toggles between Candidates and On Hold.
func (s *Service) Hold(ctx context.Context, id string) (*ActionResult, error) {
	return s.apply(ctx, id, ActionHold)
}

func (s *Service) MoveToInterview(ctx context.Context, id string) (*ActionResult, error) {
	return s.apply(ctx, id, ActionInterview)
}

func (s *Service) Restore(ctx context.Context, id string) (*ActionResult, error) {
	return s.apply(ctx, id, ActionRestore)
}

func (s *Service) apply(ctx context.Context, id string, action Action) (*ActionResult, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	to, err := Next(c.Status, action)
	if err != nil {
		s.logger.Warn("candidate transition rejected", "candidate_id", id, "status", c.Status, "action", action)
		return nil, err
	}

	notifyDecline := action == ActionDecline && sendsDeclineEmail(c.Status)
	if notifyDecline && c.Email == "" {
		return nil, ErrMissingEmail
	}

	if err := s.repo.SetStatus(ctx, id, to); err != nil {
		s.logger.Error("failed to update candidate status", "candidate_id", id, "action", action, "error", err)
		return nil, err
	}
	from := c.Status
	c.Status = to
	s.logger.Info("candidate status changed", "candidate_id", id, "from", from, "to", to)

	result := &ActionResult{Candidate: c}
	if action == ActionDecline {
		if notifyDecline {
			result.Notification = notify.Deliver(ctx, s.mailer, s.logger, notify.TemplateDecline,
				notify.Recipient{Name: c.FullName, Email: c.Email},
				notify.Vars{"name": c.FullName, "email": c.Email})
		}
		s.publish(ctx, events.NewCandidateDeclinedEvent(id, c.Email, result.Notification.Sent))
	}
	return result, nil
}

// Approve turns an interviewed candidate into a Hiring employee with the same id.
func (s *Service) Approve(ctx context.Context, id string) (*ActionResult, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanApprove(c.Status) {
		s.logger.Warn("candidate approval rejected", "candidate_id", id, "status", c.Status)
		return nil, internal.ErrInvalidTransition
	}

	createdAt := s.evaluator.Now().UTC().Format(time.RFC3339)
	err = s.repo.Promote(ctx, id, func(candidate store.Fields) store.Fields {
		return EmployeeRecord(candidate, string(timestatus.Hiring), createdAt)
	})
	if err != nil {
		s.logger.Error("failed to approve candidate", "candidate_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("candidate approved", "candidate_id", id)
	s.publish(ctx, events.NewCandidateApprovedEvent(id, c.FullName))
	return &ActionResult{EmployeeID: id}, nil
}

// CalendarLink is the booking page a candidate is invited to.
func (s *Service) CalendarLink(id string, t scheduling.Type) string {
	q := url.Values{}
	q.Set("id", id)
	q.Set("type", string(t))
	return fmt.Sprintf("%s?%s", s.linkBaseURL, q.Encode())
}

// SendInvite emails the candidate a link to book an online or in-person interview.
func (s *Service) SendInvite(ctx context.Context, id string, req InviteRequest) (*InviteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Email == "" {
		return nil, ErrMissingEmail
	}

	tpl := notify.TemplateInterviewOnline
	if req.Type == scheduling.InPerson {
		tpl = notify.TemplateInterviewInPerson
	}
	link := s.CalendarLink(id, req.Type)

	out := notify.Deliver(ctx, s.mailer, s.logger, tpl,
		notify.Recipient{Name: c.FullName, Email: c.Email},
		notify.Vars{"name": c.FullName, "email": c.Email, "calendar_link": link})
	return &InviteResult{CalendarLink: link, Notification: out}, nil
}

// InterviewLink returns the meeting link for the candidate's interview.
func (s *Service) InterviewLink(ctx context.Context, id string) (string, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if v.InterviewLink == "" {
		return "", ErrMissingLink
	}
	return v.InterviewLink, nil
}

// CandidateName resolves a candidate for interview booking.
func (s *Service) CandidateName(ctx context.Context, id string) (string, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCandidateNotFound) {
			return "", scheduling.ErrCandidateNotFound
		}
		return "", err
	}
	return c.FullName, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.EventType(), "error", err)
	}
}
