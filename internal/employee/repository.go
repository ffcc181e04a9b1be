package employee

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

func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	docs, err := r.store.GetAll(ctx, store.Employees)
	if err != nil {
		return nil, err
	}
	out := make([]Employee, 0, len(docs))
	for _, d := range docs {
		e, err := FromDocument(d)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", d.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Employee, error) {
	doc, err := r.store.GetByID(ctx, store.Employees, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	e, err := FromDocument(*doc)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Create(ctx context.Context, fields store.Fields) (string, error) {
	return r.store.Add(ctx, store.Employees, fields)
}

func (r *Repository) Update(ctx context.Context, id string, fields store.Fields) error {
	err := r.store.Update(ctx, store.Employees, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Employees, id)
}
