package scheduling

import (
	"context"
	"errors"

	"github.com/frahmantamala/people-console/internal/store"
)

// Repository keeps slots and interviews in their document collections.
type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) ListSlots(ctx context.Context) ([]Slot, error) {
	docs, err := r.store.GetAll(ctx, store.InterviewSlots)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(docs))
	for _, d := range docs {
		slots = append(slots, SlotFromDocument(d))
	}
	return slots, nil
}

func (r *Repository) GetSlot(ctx context.Context, key string) (*Slot, error) {
	doc, err := r.store.GetByID(ctx, store.InterviewSlots, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	s := SlotFromDocument(*doc)
	return &s, nil
}

func (r *Repository) SaveSlot(ctx context.Context, s Slot) error {
	return r.store.Set(ctx, store.InterviewSlots, s.Key(), SlotToDocument(s))
}

func (r *Repository) DeleteSlot(ctx context.Context, key string) error {
	return r.store.Delete(ctx, store.InterviewSlots, key)
}

func (r *Repository) ListInterviews(ctx context.Context) ([]Interview, error) {
	docs, err := r.store.GetAll(ctx, store.ScheduledInterviews)
	if err != nil {
		return nil, err
	}
	out := make([]Interview, 0, len(docs))
	for _, d := range docs {
		out = append(out, InterviewFromDocument(d))
	}
	return out, nil
}

func (r *Repository) GetInterview(ctx context.Context, candidateID string) (*Interview, error) {
	doc, err := r.store.GetByID(ctx, store.ScheduledInterviews, candidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	i := InterviewFromDocument(*doc)
	return &i, nil
}

func (r *Repository) SaveInterview(ctx context.Context, i Interview) error {
	return r.store.Set(ctx, store.ScheduledInterviews, i.CandidateID, InterviewToDocument(i))
}

func (r *Repository) DeleteInterview(ctx context.Context, candidateID string) error {
	return r.store.Delete(ctx, store.ScheduledInterviews, candidateID)
}
