package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	lite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "labsuite.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": lite,
	}
}

func newDoc(collection, code, status string, cats map[string]string) Document {
	now := time.Now().UTC()
	return Document{
		Collection: collection,
		ID:         uuid.New(),
		Code:       code,
		Label:      "Label " + code,
		Status:     status,
		Categories: cats,
		Body:       []byte(`{"code":"` + code + `"}`),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestStore_PutListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var ids []uuid.UUID
			for _, code := range []string{"HEM", "GLI", "URI"} {
				d, err := s.Put(ctx, newDoc("servicos", code, "active", nil))
				require.NoError(t, err)
				assert.NotZero(t, d.Seq)
				ids = append(ids, d.ID)
			}
			_, err := s.Put(ctx, newDoc("profissionais", "CRM1", "active", nil))
			require.NoError(t, err)

			docs, err := s.List(ctx, "servicos", Query{})
			require.NoError(t, err)
			require.Len(t, docs, 3)
			for i, d := range docs {
				assert.Equal(t, ids[i], d.ID)
			}
			assert.JSONEq(t, `{"code":"HEM"}`, string(docs[0].Body))
		})
	}
}

func TestStore_UpdateKeepsSeqAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first, err := s.Put(ctx, newDoc("servicos", "HEM", "active", nil))
			require.NoError(t, err)
			_, err = s.Put(ctx, newDoc("servicos", "GLI", "active", nil))
			require.NoError(t, err)

			first.Status = "inactive"
			first.Label = "Hemograma completo"
			first.UpdatedAt = first.UpdatedAt.Add(time.Minute)
			updated, err := s.Put(ctx, first)
			require.NoError(t, err)
			assert.Equal(t, first.Seq, updated.Seq)
			assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))

			got, err := s.Get(ctx, "servicos", first.ID)
			require.NoError(t, err)
			assert.Equal(t, "inactive", got.Status)
			assert.Equal(t, "Hemograma completo", got.Label)

			docs, err := s.List(ctx, "servicos", Query{})
			require.NoError(t, err)
			require.Len(t, docs, 2)
			assert.Equal(t, first.ID, docs[0].ID)
		})
	}
}

func TestStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, newDoc("servicos", "HEM", "active", map[string]string{"setor": "hematologia"}))
			require.NoError(t, err)
			_, err = s.Put(ctx, newDoc("servicos", "GLI", "inactive", map[string]string{"setor": "bioquimica"}))
			require.NoError(t, err)
			_, err = s.Put(ctx, newDoc("servicos", "COL", "active", map[string]string{"setor": "bioquimica"}))
			require.NoError(t, err)

			active, err := s.List(ctx, "servicos", Query{Status: "active"})
			require.NoError(t, err)
			assert.Len(t, active, 2)

			bio, err := s.List(ctx, "servicos", Query{Categories: map[string]string{"setor": "bioquimica"}})
			require.NoError(t, err)
			assert.Len(t, bio, 2)

			both, err := s.List(ctx, "servicos", Query{Status: "active", Categories: map[string]string{"setor": "bioquimica", "tipo": ""}})
			require.NoError(t, err)
			require.Len(t, both, 1)
			assert.Equal(t, "COL", both[0].Code)
		})
	}
}

func TestStore_FindByCodeIgnoresCase(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			d, err := s.Put(ctx, newDoc("convenios", "UNIMED", "active", nil))
			require.NoError(t, err)

			got, err := s.FindByCode(ctx, "convenios", "unimed")
			require.NoError(t, err)
			assert.Equal(t, d.ID, got.ID)

			_, err = s.FindByCode(ctx, "convenios", "bradesco")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStore_FindByCodeFoldsAccents(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			d, err := s.Put(ctx, newDoc("procedimentos", "ÉCO-01", "active", nil))
			require.NoError(t, err)

			got, err := s.FindByCode(ctx, "procedimentos", "éco-01")
			require.NoError(t, err)
			assert.Equal(t, d.ID, got.ID)
			assert.Equal(t, "ÉCO-01", got.Code)

			_, err = s.FindByCode(ctx, "procedimentos", "eco-01")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestSQLite_BackfillsCodeKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `CREATE TABLE documents (
		collection TEXT NOT NULL, id TEXT NOT NULL, seq INTEGER NOT NULL,
		code TEXT NOT NULL DEFAULT '', label TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active', categories TEXT NOT NULL DEFAULT '{}',
		body TEXT NOT NULL, created_at TEXT NOT NULL, updated_at TEXT NOT NULL,
		PRIMARY KEY (collection, id))`)
	require.NoError(t, err)
	id := uuid.New()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = raw.ExecContext(ctx, `INSERT INTO documents VALUES (?, ?, 1, ?, 'Ácido úrico', 'active', '{}', '{}', ?, ?)`,
		"procedimentos", id.String(), "ÁCIDO-ÚRICO", now, now)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	lite, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer lite.Close()

	got, err := lite.FindByCode(ctx, "procedimentos", "ácido-úrico")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestStore_DeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a, err := s.Put(ctx, newDoc("recipientes", "EDTA", "active", nil))
			require.NoError(t, err)
			b, err := s.Put(ctx, newDoc("recipientes", "SECO", "active", nil))
			require.NoError(t, err)

			require.NoError(t, s.Delete(ctx, "recipientes", a.ID))
			_, err = s.Get(ctx, "recipientes", a.ID)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.True(t, errors.Is(s.Delete(ctx, "recipientes", a.ID), ErrNotFound))

			docs, err := s.List(ctx, "recipientes", Query{})
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, b.ID, docs[0].ID)

			_, err = s.Get(ctx, "nada", uuid.New())
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	d, err := m.Put(ctx, newDoc("servicos", "HEM", "active", map[string]string{"setor": "hematologia"}))
	require.NoError(t, err)

	got, err := m.Get(ctx, "servicos", d.ID)
	require.NoError(t, err)
	got.Categories["setor"] = "alterado"
	got.Body[0] = 'X'

	again, err := m.Get(ctx, "servicos", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "hematologia", again.Categories["setor"])
	assert.Equal(t, byte('{'), again.Body[0])
}

func TestListWhere(t *testing.T) {
	where, args := listWhere("servicos", Query{Status: "active", Categories: map[string]string{"setor": "bioquimica", "tipo": ""}})
	assert.Equal(t, "collection = $1 AND status = $2 AND categories @> $3::jsonb", where)
	assert.Equal(t, []interface{}{"servicos", "active", `{"setor":"bioquimica"}`}, args)

	where, args = listWhere("servicos", Query{})
	assert.Equal(t, "collection = $1", where)
	assert.Len(t, args, 1)
}
