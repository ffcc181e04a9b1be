package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"
)

type RepositoryAPI interface {
	ListSlots(ctx context.Context) ([]Slot, error)
	GetSlot(ctx context.Context, key string) (*Slot, error)
	SaveSlot(ctx context.Context, s Slot) error
	DeleteSlot(ctx context.Context, key string) error
	ListInterviews(ctx context.Context) ([]Interview, error)
	GetInterview(ctx context.Context, candidateID string) (*Interview, error)
	SaveInterview(ctx context.Context, i Interview) error
	DeleteInterview(ctx context.Context, candidateID string) error
}

// CandidateDirectory resolves the candidate a booking is made for.
type CandidateDirectory interface {
	CandidateName(ctx context.Context, id string) (string, error)
}

type Service struct {
	repo       RepositoryAPI
	candidates CandidateDirectory
	loc        *time.Location
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, candidates CandidateDirectory, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:       repo,
		candidates: candidates,
		loc:        loc,
		logger:     logger,
	}
}

func (s *Service) ListSlots(ctx context.Context) ([]Slot, error) {
	slots, err := s.repo.ListSlots(ctx)
	if err != nil {
		s.logger.Error("failed to list interview slots", "error", err)
		return nil, err
	}
	sortSlots(slots)
	return slots, nil
}

// AddSlot writes the slot under its key, replacing any slot with the same start and type.
func (s *Service) AddSlot(ctx context.Context, in SlotInput) (*Slot, error) {
	slot, err := BuildSlot(in, s.loc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveSlot(ctx, slot); err != nil {
		s.logger.Error("failed to save interview slot", "key", slot.Key(), "error", err)
		return nil, err
	}
	s.logger.Info("interview slot added", "key", slot.Key())
	return &slot, nil
}

// UpdateSlot replaces the slot stored under oldKey. The new slot is written
// first; the old key is removed only when the key actually changed.
func (s *Service) UpdateSlot(ctx context.Context, oldKey string, in SlotInput) (*Slot, error) {
	slot, err := BuildSlot(in, s.loc)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetSlot(ctx, oldKey); err != nil {
		return nil, err
	}

	if err := s.repo.SaveSlot(ctx, slot); err != nil {
		s.logger.Error("failed to save interview slot", "key", slot.Key(), "error", err)
		return nil, err
	}
	if slot.Key() != oldKey {
		if err := s.repo.DeleteSlot(ctx, oldKey); err != nil {
			s.logger.Error("failed to remove replaced interview slot", "key", oldKey, "error", err)
			return nil, err
		}
	}
	s.logger.Info("interview slot updated", "old_key", oldKey, "key", slot.Key())
	return &slot, nil
}

func (s *Service) DeleteSlot(ctx context.Context, key string) error {
	if err := s.repo.DeleteSlot(ctx, key); err != nil {
		s.logger.Error("failed to delete interview slot", "key", key, "error", err)
		return err
	}
	s.logger.Info("interview slot deleted", "key", key)
	return nil
}

func (s *Service) AvailableSlots(ctx context.Context) ([]Slot, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.ListInterviews(ctx)
	if err != nil {
		s.logger.Error("failed to list scheduled interviews", "error", err)
		return nil, err
	}
	return Available(slots, booked), nil
}

func (s *Service) ScheduledInterviews(ctx context.Context) ([]Interview, error) {
	list, err := s.repo.ListInterviews(ctx)
	if err != nil {
		s.logger.Error("failed to list scheduled interviews", "error", err)
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Start < list[j].Start })
	return list, nil
}

// InterviewsByCandidate indexes the booked interviews by candidate id.
func (s *Service) InterviewsByCandidate(ctx context.Context) (map[string]Interview, error) {
	list, err := s.repo.ListInterviews(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Interview, len(list))
	for _, i := range list {
		out[i.CandidateID] = i
	}
	return out, nil
}

// Book takes a free slot for a candidate. A candidate holds at most one
// booking, so booking again moves it.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name, err := s.candidates.CandidateName(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}

	slot, err := s.repo.GetSlot(ctx, req.SlotKey)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.ListInterviews(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range booked {
		if b.CandidateID != req.CandidateID && slot.Matches(b.Slot()) {
			return nil, ErrSlotUnavailable
		}
	}

	interview := Interview{
		CandidateID:   req.CandidateID,
		CandidateName: name,
		Start:         slot.Start,
		End:           slot.End,
		Type:          slot.Type,
		Link:          req.Link,
	}
	if err := s.repo.SaveInterview(ctx, interview); err != nil {
		s.logger.Error("failed to save scheduled interview", "candidate_id", req.CandidateID, "error", err)
		return nil, err
	}

	s.logger.Info("interview booked", "candidate_id", req.CandidateID, "slot", slot.Key())
	return &interview, nil
}

func (s *Service) Cancel(ctx context.Context, candidateID string) error {
	if _, err := s.repo.GetInterview(ctx, candidateID); err != nil {
		if !errors.Is(err, ErrInterviewNotFound) {
			s.logger.Error("failed to load scheduled interview", "candidate_id", candidateID, "error", err)
		}
		return err
	}
	if err := s.repo.DeleteInterview(ctx, candidateID); err != nil {
		s.logger.Error("failed to cancel interview", "candidate_id", candidateID, "error", err)
		return err
	}
	s.logger.Info("interview cancelled", "candidate_id", candidateID)
	return nil
}

func sortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start == slots[j].Start {
			return slots[i].Type < slots[j].Type
		}
		return slots[i].Start < slots[j].Start
	})
}
