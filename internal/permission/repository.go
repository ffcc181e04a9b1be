package permission

import (
	"context"
	"errors"

	"github.com/frahmantamala/people-console/internal/store"
)

type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	docs, err := r.store.GetAll(ctx, store.Permissions)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, email string) (*Entry, error) {
	doc, err := r.store.GetByID(ctx, store.Permissions, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	e := FromDocument(*doc)
	return &e, nil
}

// Save overwrites the whole row.
func (r *Repository) Save(ctx context.Context, e Entry) error {
	return r.store.Set(ctx, store.Permissions, e.Email, ToDocument(e))
}

func (r *Repository) SetFrozen(ctx context.Context, email string, frozen bool) error {
	err := r.store.Update(ctx, store.Permissions, email, store.Fields{"frozen": frozen})
	if errors.Is(err, store.ErrNotFound) {
		return ErrPermissionNotFound
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, email string) error {
	return r.store.Delete(ctx, store.Permissions, email)
}
