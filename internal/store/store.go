// Package store is the record store adapter: schemaless documents grouped in
// named collections, addressed by generated or natural (email) ids.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frahmantamala/people-console/internal"
)

type Collection string

const (
	Candidates          Collection = "candidates"
	Employees           Collection = "employees"
	Permissions         Collection = "permissions"
	InterviewSlots      Collection = "interviewSlots"
	ScheduledInterviews Collection = "scheduledInterviews"
)

// Fields is the JSON object body of a document.
type Fields map[string]any

type Document struct {
	ID        string    `json:"id"`
	Data      Fields    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrNotFound = internal.NewNotFoundError("record not found", internal.ErrCodeRecordNotFound)

// Store is implemented by the gorm-backed document table and by the cached view.
//
// Set overwrites the whole document, creating it when absent. Update merges the
// given top-level fields into an existing document and fails with ErrNotFound
// when there is none. Delete of a missing id is not an error.
type Store interface {
	GetAll(ctx context.Context, c Collection) ([]Document, error)
	GetByID(ctx context.Context, c Collection, id string) (*Document, error)
	Add(ctx context.Context, c Collection, data Fields) (string, error)
	Set(ctx context.Context, c Collection, id string, data Fields) error
	Update(ctx context.Context, c Collection, id string, data Fields) error
	Delete(ctx context.Context, c Collection, id string) error
}

// Encode converts a tagged struct into document fields through its JSON form.
func Encode(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return f, nil
}

// Decode fills v from document fields.
func Decode(f Fields, v any) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Merge returns base with patch applied on top, one level deep.
func Merge(base, patch Fields) Fields {
	out := make(Fields, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Clone deep-copies nested maps and slices so callers cannot alias cached data.
func Clone(f Fields) Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Clone(Fields(t)))
	case Fields:
		return Clone(t)
	case []any:
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = cloneValue(item)
		}
		return cp
	default:
		return v
	}
}
