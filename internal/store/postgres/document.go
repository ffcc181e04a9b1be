package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	documentDatamodel "github.com/frahmantamala/people-console/internal/core/datamodel/document"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

var _ store.Store = (*DocumentStore)(nil)

func (s *DocumentStore) GetAll(ctx context.Context, c store.Collection) ([]store.Document, error) {
	var rows []*documentDatamodel.Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", string(c)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}

	docs := make([]store.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := FromDataModel(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *DocumentStore) GetByID(ctx context.Context, c store.Collection, id string) (*store.Document, error) {
	row, err := s.find(s.db.WithContext(ctx), c, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row)
}

func (s *DocumentStore) Add(ctx context.Context, c store.Collection, data store.Fields) (string, error) {
	id := uuid.NewString()
	row, err := ToDataModel(c, id, data)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", fmt.Errorf("add %s: %w", c, err)
	}
	return id, nil
}

func (s *DocumentStore) Set(ctx context.Context, c store.Collection, id string, data store.Fields) error {
	row, err := ToDataModel(c, id, data)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", c, id, err)
	}
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, c store.Collection, id string, data store.Fields) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, c, id)
		if err != nil {
			return err
		}

		current, err := decodeData(row.Data)
		if err != nil {
			return err
		}
		merged, err := json.Marshal(store.Merge(current, data))
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", c, id, err)
		}

		err = tx.Model(&documentDatamodel.Document{}).
			Where("collection = ? AND id = ?", string(c), id).
			Updates(map[string]any{"data": string(merged), "updated_at": time.Now()}).Error
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", c, id, err)
		}
		return nil
	})
}

func (s *DocumentStore) Delete(ctx context.Context, c store.Collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", string(c), id).
		Delete(&documentDatamodel.Document{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, id, err)
	}
	return nil
}

func (s *DocumentStore) find(db *gorm.DB, c store.Collection, id string) (*documentDatamodel.Document, error) {
	var row documentDatamodel.Document
	err := db.Where("collection = ? AND id = ?", string(c), id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", c, id, err)
	}
	return &row, nil
}

func ToDataModel(c store.Collection, id string, data store.Fields) (*documentDatamodel.Document, error) {
	if data == nil {
		data = store.Fields{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", c, id, err)
	}
	return &documentDatamodel.Document{
		Collection: string(c),
		ID:         id,
		Data:       string(raw),
	}, nil
}

func FromDataModel(row *documentDatamodel.Document) (*store.Document, error) {
	data, err := decodeData(row.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", row.Collection, row.ID, err)
	}
	return &store.Document{
		ID:        row.ID,
		Data:      data,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func decodeData(raw string) (store.Fields, error) {
	data := store.Fields{}
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}
