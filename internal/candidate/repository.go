package candidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/people-console/internal/store"
)

type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) List(ctx context.Context) ([]Candidate, error) {
	docs, err := r.store.GetAll(ctx, store.Candidates)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(docs))
	for _, d := range docs {
		c, err := FromDocument(d)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", d.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Candidate, error) {
	doc, err := r.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := FromDocument(*doc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) getDocument(ctx context.Context, id string) (*store.Document, error) {
	doc, err := r.store.GetByID(ctx, store.Candidates, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (r *Repository) Create(ctx context.Context, c Candidate) (string, error) {
	fields, err := ToDocument(c)
	if err != nil {
		return "", err
	}
	return r.store.Add(ctx, store.Candidates, fields)
}

func (r *Repository) SetStatus(ctx context.Context, id string, status Status) error {
	err := r.store.Update(ctx, store.Candidates, id, store.Fields{"status": string(status)})
	if errors.Is(err, store.ErrNotFound) {
		return ErrCandidateNotFound
	}
	return err
}

// Promote writes the employee under the candidate's id, then removes the
// candidate. The two writes are not atomic.
func (r *Repository) Promote(ctx context.Context, id string, employee func(candidate store.Fields) store.Fields) error {
	doc, err := r.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.Employees, id, employee(doc.Data)); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	if err := r.store.Delete(ctx, store.Candidates, id); err != nil {
		return fmt.Errorf("remove promoted candidate: %w", err)
	}
	return nil
}
