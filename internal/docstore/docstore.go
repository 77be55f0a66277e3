// Package docstore is the document store gateway used by the resource
// services. A Collection holds JSON documents keyed by an opaque id and scoped
// by an owner id; every single-document operation is atomic on its own.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by FindOne when no document matches the filter.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidDocument is returned when a document cannot be stored as given.
	ErrInvalidDocument = errors.New("invalid document")
)

// Document is a stored record. Data holds the caller's fields as a JSON object.
type Document struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Filter selects documents. Empty fields match any value.
type Filter struct {
	ID      string
	OwnerID string
}

// FindOptions tunes FindOne.
type FindOptions struct {
	// Newest returns the most recently created match instead of an arbitrary one.
	Newest bool
}

// Update describes a mutation applied by UpdateOne.
type Update struct {
	// Set is shallow-merged into the document's Data.
	Set map[string]any
	// At is the mutation time; UpdatedAt never moves backwards or stays put.
	At time.Time
}

type UpdateResult struct {
	Matched int64
}

type DeleteResult struct {
	Deleted int64
}

// Collection is the gateway to one named collection.
type Collection interface {
	Name() string
	FindOne(ctx context.Context, f Filter, opts FindOptions) (*Document, error)
	// InsertOne assigns a fresh id and returns it. OwnerID is required.
	InsertOne(ctx context.Context, doc Document) (string, error)
	UpdateOne(ctx context.Context, f Filter, u Update) (UpdateResult, error)
	DeleteOne(ctx context.Context, f Filter) (DeleteResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// NewID returns a fresh store-native identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the store-native identifier format.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Now is the store clock resolution: UTC, microseconds.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NextUpdatedAt returns the UpdatedAt value for a mutation at `at` on a
// document last updated at `prev`.
func NextUpdatedAt(prev, at time.Time) time.Time {
	at = at.UTC().Truncate(time.Microsecond)
	if floor := prev.Add(time.Microsecond); at.Before(floor) {
		return floor
	}
	return at
}

// MergeData shallow-merges set into the JSON object data.
func MergeData(data json.RawMessage, set map[string]any) (json.RawMessage, error) {
	obj := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("%w: data is not a JSON object: %v", ErrInvalidDocument, err)
		}
		if obj == nil {
			obj = map[string]any{}
		}
	}
	for k, v := range set {
		obj[k] = v
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out, nil
}

// PrepareInsert validates doc and fills in the id and timestamps every
// backend assigns on insert.
func PrepareInsert(doc Document) (Document, error) {
	if doc.OwnerID == "" {
		return Document{}, fmt.Errorf("%w: owner id required", ErrInvalidDocument)
	}
	data, err := MergeData(doc.Data, nil)
	if err != nil {
		return Document{}, err
	}
	now := Now()
	doc.ID = NewID()
	doc.Data = data
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.CreatedAt = doc.CreatedAt.UTC().Truncate(time.Microsecond)
	doc.UpdatedAt = doc.CreatedAt
	return doc, nil
}

// Matches reports whether doc satisfies f.
func (f Filter) Matches(doc *Document) bool {
	if f.ID != "" && doc.ID != f.ID {
		return false
	}
	if f.OwnerID != "" && doc.OwnerID != f.OwnerID {
		return false
	}
	return true
}
