package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite stores documents in a single-file database through the pure-Go
// modernc driver. Category filters are applied after the status pushdown.
type SQLite struct{ db *sql.DB }

// OpenSQLite opens (creating if needed) the database at path and ensures the
// documents table exists. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; also keeps ":memory:" on a single connection.
	conn.SetMaxOpenConns(1)

	s := &SQLite{db: conn}
	if err := s.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			code TEXT NOT NULL DEFAULT '',
			code_key TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			categories TEXT NOT NULL DEFAULT '{}',
			body TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection_seq ON documents(collection, seq)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sqlite schema: %w", err)
		}
	}
	if err := s.ensureCodeKey(ctx); err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_documents_code_key ON documents(collection, code_key)`)
	if err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

// ensureCodeKey adds and backfills the folded code column on databases
// created before it existed. SQLite's NOCASE folds ASCII only, so the key is
// computed in Go.
func (s *SQLite) ensureCodeKey(ctx context.Context) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('documents') WHERE name = 'code_key'`).Scan(&n)
	if err != nil || n > 0 {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`ALTER TABLE documents ADD COLUMN code_key TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT collection, id, code FROM documents WHERE code <> ''`)
	if err != nil {
		return err
	}
	type keyed struct{ collection, id, key string }
	var pending []keyed
	for rows.Next() {
		var k keyed
		var code string
		if err := rows.Scan(&k.collection, &k.id, &code); err != nil {
			rows.Close()
			return err
		}
		k.key = foldCode(code)
		pending = append(pending, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, k := range pending {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE documents SET code_key = ? WHERE collection = ? AND id = ?`, k.key, k.collection, k.id); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (Document, error) {
	var (
		d                    Document
		cats, body           string
		createdAt, updatedAt string
	)
	err := row.Scan(&d.Collection, &d.ID, &d.Seq, &d.Code, &d.Label, &d.Status,
		&cats, &body, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	if err := json.Unmarshal([]byte(cats), &d.Categories); err != nil {
		return Document{}, fmt.Errorf("decode categories of %s: %w", d.ID, err)
	}
	d.Body = []byte(body)
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, err
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *SQLite) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	query := `SELECT ` + docCols + ` FROM documents WHERE collection = ?`
	args := []any{collection}
	if q.Status != "" {
		query += ` AND status = ?`
		args = append(args, q.Status)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		if q.matches(d) {
			out = append(out, d)
		}
	}
	return out, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, collection string, id uuid.UUID) (Document, error) {
	return scanSQLite(s.db.QueryRowContext(ctx,
		`SELECT `+docCols+` FROM documents WHERE collection = ? AND id = ?`, collection, id.String()))
}

func (s *SQLite) FindByCode(ctx context.Context, collection, code string) (Document, error) {
	return scanSQLite(s.db.QueryRowContext(ctx,
		`SELECT `+docCols+` FROM documents WHERE collection = ? AND code_key = ? ORDER BY seq LIMIT 1`,
		collection, foldCode(code)))
}

func (s *SQLite) Put(ctx context.Context, doc Document) (Document, error) {
	cats := doc.Categories
	if cats == nil {
		cats = map[string]string{}
	}
	rawCats, err := json.Marshal(cats)
	if err != nil {
		return Document{}, err
	}

	var createdAt string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO documents (collection, id, seq, code, code_key, label, status, categories, body, created_at, updated_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents), ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			code = excluded.code, code_key = excluded.code_key, label = excluded.label, status = excluded.status,
			categories = excluded.categories, body = excluded.body, updated_at = excluded.updated_at
		RETURNING seq, created_at`,
		doc.Collection, doc.ID.String(), doc.Code, foldCode(doc.Code), doc.Label, doc.Status, string(rawCats), string(doc.Body),
		doc.CreatedAt.UTC().Format(time.RFC3339Nano), doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&doc.Seq, &createdAt)
	if err != nil {
		return Document{}, fmt.Errorf("put %s/%s: %w", doc.Collection, doc.ID, err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *SQLite) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) Close() error { return s.db.Close() }
