// Package storetest opens throwaway document stores for specs.
package storetest

import (
	"context"
	"fmt"
	"sync"

	documentDatamodel "github.com/frahmantamala/people-console/internal/core/datamodel/document"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/store/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a document store over a private in-memory SQLite database.
func OpenSQLite() (*postgres.DocumentStore, *gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	// each new connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&documentDatamodel.Document{}); err != nil {
		return nil, nil, fmt.Errorf("migrate documents: %w", err)
	}
	return postgres.NewDocumentStore(db), db, nil
}

// Op names a store method for failure injection.
type Op string

const (
	OpGetAll  Op = "GetAll"
	OpGetByID Op = "GetByID"
	OpAdd     Op = "Add"
	OpSet     Op = "Set"
	OpUpdate  Op = "Update"
	OpDelete  Op = "Delete"
)

// Recorder wraps a store, records every write and can fail chosen operations.
type Recorder struct {
	store.Store

	mu     sync.Mutex
	failOn map[Op]error
	Writes []Write
}

type Write struct {
	Op         Op
	Collection store.Collection
	ID         string
	Data       store.Fields
}

func NewRecorder(next store.Store) *Recorder {
	return &Recorder{Store: next, failOn: map[Op]error{}}
}

func (r *Recorder) FailOn(op Op, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[op] = err
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = map[Op]error{}
	r.Writes = nil
}

func (r *Recorder) WriteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Writes)
}

func (r *Recorder) fail(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failOn[op]
}

func (r *Recorder) record(op Op, c store.Collection, id string, data store.Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes = append(r.Writes, Write{Op: op, Collection: c, ID: id, Data: data})
}

func (r *Recorder) GetAll(ctx context.Context, c store.Collection) ([]store.Document, error) {
	if err := r.fail(OpGetAll); err != nil {
		return nil, err
	}
	return r.Store.GetAll(ctx, c)
}

func (r *Recorder) GetByID(ctx context.Context, c store.Collection, id string) (*store.Document, error) {
	if err := r.fail(OpGetByID); err != nil {
		return nil, err
	}
	return r.Store.GetByID(ctx, c, id)
}

func (r *Recorder) Add(ctx context.Context, c store.Collection, data store.Fields) (string, error) {
	if err := r.fail(OpAdd); err != nil {
		return "", err
	}
	id, err := r.Store.Add(ctx, c, data)
	if err == nil {
		r.record(OpAdd, c, id, data)
	}
	return id, err
}

func (r *Recorder) Set(ctx context.Context, c store.Collection, id string, data store.Fields) error {
	if err := r.fail(OpSet); err != nil {
		return err
	}
	err := r.Store.Set(ctx, c, id, data)
	if err == nil {
		r.record(OpSet, c, id, data)
	}
	return err
}

func (r *Recorder) Update(ctx context.Context, c store.Collection, id string, data store.Fields) error {
	if err := r.fail(OpUpdate); err != nil {
		return err
	}
	err := r.Store.Update(ctx, c, id, data)
	if err == nil {
		r.record(OpUpdate, c, id, data)
	}
	return err
}

func (r *Recorder) Delete(ctx context.Context, c store.Collection, id string) error {
	if err := r.fail(OpDelete); err != nil {
		return err
	}
	err := r.Store.Delete(ctx, c, id)
	if err == nil {
		r.record(OpDelete, c, id, nil)
	}
	return err
}
