// Package cached keeps a local, read-through view of whole collections in
// front of a store.Store. The view only changes after the underlying write
// has succeeded, so a rejected write never shows up in later reads.
package cached

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/frahmantamala/people-console/internal/store"
	cache "github.com/patrickmn/go-cache"
)

const (
	DefaultExpiration = 20 * time.Minute
	DefaultCleanup    = 10 * time.Minute
)

type snapshot map[string]store.Document

type Store struct {
	next      store.Store
	snapshots *cache.Cache
	logger    *slog.Logger
	mu        sync.Mutex
}

var _ store.Store = (*Store)(nil)

func New(next store.Store, ttl, cleanup time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	if cleanup <= 0 {
		cleanup = DefaultCleanup
	}
	return &Store{
		next:      next,
		snapshots: cache.New(ttl, cleanup),
		logger:    logger,
	}
}

// Invalidate drops the cached view of c.
func (s *Store) Invalidate(c store.Collection) {
	s.snapshots.Delete(string(c))
}

func (s *Store) GetAll(ctx context.Context, c store.Collection) ([]store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, c)
	if err != nil {
		return nil, err
	}
	return snap.list(), nil
}

func (s *Store) GetByID(ctx context.Context, c store.Collection, id string) (*store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.cached(c); ok {
		doc, found := snap[id]
		if !found {
			return nil, store.ErrNotFound
		}
		cp := copyDoc(doc)
		return &cp, nil
	}
	return s.next.GetByID(ctx, c, id)
}

func (s *Store) Add(ctx context.Context, c store.Collection, data store.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.next.Add(ctx, c, data)
	if err != nil {
		return "", err
	}
	s.refresh(ctx, c, id)
	return id, nil
}

func (s *Store) Set(ctx context.Context, c store.Collection, id string, data store.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.next.Set(ctx, c, id, data); err != nil {
		return err
	}
	s.refresh(ctx, c, id)
	return nil
}

func (s *Store) Update(ctx context.Context, c store.Collection, id string, data store.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.next.Update(ctx, c, id, data); err != nil {
		return err
	}
	s.refresh(ctx, c, id)
	return nil
}

func (s *Store) Delete(ctx context.Context, c store.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.next.Delete(ctx, c, id); err != nil {
		return err
	}
	if snap, ok := s.cached(c); ok {
		delete(snap, id)
	}
	return nil
}

func (s *Store) cached(c store.Collection) (snapshot, bool) {
	v, ok := s.snapshots.Get(string(c))
	if !ok {
		return nil, false
	}
	return v.(snapshot), true
}

func (s *Store) load(ctx context.Context, c store.Collection) (snapshot, error) {
	if snap, ok := s.cached(c); ok {
		return snap, nil
	}
	docs, err := s.next.GetAll(ctx, c)
	if err != nil {
		return nil, err
	}
	snap := make(snapshot, len(docs))
	for _, d := range docs {
		snap[d.ID] = copyDoc(d)
	}
	s.snapshots.SetDefault(string(c), snap)
	return snap, nil
}

// refresh re-reads a written document into the view. A failed read drops the
// whole view rather than serving a stale copy.
func (s *Store) refresh(ctx context.Context, c store.Collection, id string) {
	snap, ok := s.cached(c)
	if !ok {
		return
	}
	doc, err := s.next.GetByID(ctx, c, id)
	if err != nil {
		s.logger.Warn("cached view refresh failed, dropping collection", "collection", c, "id", id, "error", err)
		s.Invalidate(c)
		return
	}
	snap[id] = copyDoc(*doc)
}

func (snap snapshot) list() []store.Document {
	out := make([]store.Document, 0, len(snap))
	for _, d := range snap {
		out = append(out, copyDoc(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func copyDoc(d store.Document) store.Document {
	d.Data = store.Clone(d.Data)
	return d
}
