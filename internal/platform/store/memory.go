package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps every collection in process memory. Nothing survives a restart.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	seq         int64
}

type memCollection struct {
	docs  []Document
	index map[uuid.UUID]int
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) List(_ context.Context, collection string, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	out := make([]Document, 0, len(col.docs))
	for _, d := range col.docs {
		if q.matches(d) {
			out = append(out, copyDoc(d))
		}
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, collection string, id uuid.UUID) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	i, ok := col.index[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return copyDoc(col.docs[i]), nil
}

func (m *Memory) FindByCode(_ context.Context, collection, code string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	key := foldCode(code)
	for _, d := range col.docs {
		if foldCode(d.Code) == key {
			return copyDoc(d), nil
		}
	}
	return Document{}, ErrNotFound
}

func (m *Memory) Put(_ context.Context, doc Document) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[doc.Collection]
	if !ok {
		col = &memCollection{index: make(map[uuid.UUID]int)}
		m.collections[doc.Collection] = col
	}

	doc = copyDoc(doc)
	if i, exists := col.index[doc.ID]; exists {
		prev := col.docs[i]
		doc.Seq = prev.Seq
		doc.CreatedAt = prev.CreatedAt
		col.docs[i] = doc
		return copyDoc(doc), nil
	}

	m.seq++
	doc.Seq = m.seq
	col.index[doc.ID] = len(col.docs)
	col.docs = append(col.docs, doc)
	return copyDoc(doc), nil
}

func (m *Memory) Delete(_ context.Context, collection string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	i, ok := col.index[id]
	if !ok {
		return ErrNotFound
	}
	col.docs = append(col.docs[:i], col.docs[i+1:]...)
	delete(col.index, id)
	for j := i; j < len(col.docs); j++ {
		col.index[col.docs[j].ID] = j
	}
	return nil
}

func (m *Memory) Close() error { return nil }

func copyDoc(d Document) Document {
	if d.Categories != nil {
		cats := make(map[string]string, len(d.Categories))
		for k, v := range d.Categories {
			cats[k] = v
		}
		d.Categories = cats
	}
	if d.Body != nil {
		d.Body = append([]byte(nil), d.Body...)
	}
	return d
}

func (m *Memory) Ping(context.Context) error { return nil }
