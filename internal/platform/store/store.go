// Package store persists registry collections as ordered JSON documents.
//
// A document carries the columns every list screen filters on (code, label,
// status, categories) next to the opaque JSON body of the record, so backends
// can push exact-match filters down while the registry keeps the typed model.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

var ErrNotFound = errors.New("document not found")

// Document is one record of a collection.
type Document struct {
	Collection string
	ID         uuid.UUID
	// Seq is the insertion position inside the collection. It is assigned on
	// first Put and never changes afterwards.
	Seq        int64
	Code       string
	Label      string
	Status     string
	Categories map[string]string
	Body       []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Query narrows a List call with exact-match constraints. Empty values do not
// constrain.
type Query struct {
	Status     string
	Categories map[string]string
}

// Store is the persistence contract shared by the memory, postgres and sqlite
// backends. List always returns documents in insertion order.
type Store interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection string, id uuid.UUID) (Document, error)
	// FindByCode matches code case-insensitively.
	FindByCode(ctx context.Context, collection, code string) (Document, error)
	// Put inserts a new document or replaces the one with the same id,
	// keeping its Seq and CreatedAt.
	Put(ctx context.Context, doc Document) (Document, error)
	Delete(ctx context.Context, collection string, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}

func (q Query) matches(d Document) bool {
	if q.Status != "" && d.Status != q.Status {
		return false
	}
	for k, v := range q.Categories {
		if v == "" {
			continue
		}
		if d.Categories[k] != v {
			return false
		}
	}
	return true
}

// foldCode is the case-insensitive key FindByCode compares on. Full Unicode
// folding, so "ÉCO" and "éco" collide in every backend.
func foldCode(code string) string {
	return cases.Fold().String(code)
}
