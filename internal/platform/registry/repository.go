package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/labsuite/labsuite/internal/platform/store"
)

// Repository is the single source of truth for one collection. List and
// detail screens read through the same instance, so a save is visible to the
// list immediately.
type Repository[T Entity] interface {
	List(ctx context.Context, f Filter) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	FindByCode(ctx context.Context, code string) (T, error)
	// Save inserts records with a nil id and replaces the rest. Non-blank
	// codes are unique within the collection.
	Save(ctx context.Context, v T) (T, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// DocumentRepo stores records of type T as JSON documents in a store.Store.
type DocumentRepo[T Entity] struct {
	store      store.Store
	collection string
	newT       func() T
	now        func() time.Time
}

func NewDocumentRepo[T Entity](s store.Store, collection string, newT func() T) *DocumentRepo[T] {
	return &DocumentRepo[T]{
		store:      s,
		collection: collection,
		newT:       newT,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *DocumentRepo[T]) Collection() string { return r.collection }

func (r *DocumentRepo[T]) decode(d store.Document) (T, error) {
	v := r.newT()
	if err := json.Unmarshal(d.Body, v); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s/%s: %w", r.collection, d.ID, err)
	}
	return v, nil
}

func (r *DocumentRepo[T]) List(ctx context.Context, f Filter) ([]T, error) {
	docs, err := r.store.List(ctx, r.collection, f.StoreQuery())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.collection, err)
	}
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := r.decode(d)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return Apply(items, f), nil
}

func (r *DocumentRepo[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	d, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		var zero T
		if errors.Is(err, store.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("get %s/%s: %w", r.collection, id, err)
	}
	return r.decode(d)
}

func (r *DocumentRepo[T]) FindByCode(ctx context.Context, code string) (T, error) {
	d, err := r.store.FindByCode(ctx, r.collection, code)
	if err != nil {
		var zero T
		if errors.Is(err, store.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("find %s by code %q: %w", r.collection, code, err)
	}
	return r.decode(d)
}

func (r *DocumentRepo[T]) Save(ctx context.Context, v T) (T, error) {
	rec := v.GetRecord()
	now := r.now()

	if rec.Code != "" {
		if dup, err := r.store.FindByCode(ctx, r.collection, rec.Code); err == nil && dup.ID != rec.ID {
			return v, ErrDuplicateCode
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return v, fmt.Errorf("check code of %s: %w", r.collection, err)
		}
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
		rec.CreatedAt = now
	} else if prev, err := r.store.Get(ctx, r.collection, rec.ID); err == nil {
		rec.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, store.ErrNotFound) {
		return v, fmt.Errorf("get %s/%s: %w", r.collection, rec.ID, err)
	} else if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = StatusActive
	}

	body, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("encode %s/%s: %w", r.collection, rec.ID, err)
	}
	_, err = r.store.Put(ctx, store.Document{
		Collection: r.collection,
		ID:         rec.ID,
		Code:       rec.Code,
		Label:      rec.Label,
		Status:     string(rec.Status),
		Categories: v.Categories(),
		Body:       body,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	})
	if err != nil {
		return v, fmt.Errorf("save %s/%s: %w", r.collection, rec.ID, err)
	}
	return v, nil
}

func (r *DocumentRepo[T]) Remove(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("remove %s/%s: %w", r.collection, id, err)
	}
	return nil
}

// SeedIfEmpty saves items into repo when the collection has no records yet
// and returns how many were written.
func SeedIfEmpty[T Entity](ctx context.Context, repo Repository[T], items ...T) (int, error) {
	existing, err := repo.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, it := range items {
		if _, err := repo.Save(ctx, it); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
