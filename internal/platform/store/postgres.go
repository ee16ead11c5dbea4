package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labsuite/labsuite/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Postgres stores documents in the "documents" table created by
// migrations/001_documents.sql.
type Postgres struct{ pool *pgxpool.Pool }

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

const docCols = `collection, id, seq, code, label, status, categories, body, created_at, updated_at`

func (s *Postgres) scanRow(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.Collection, &d.ID, &d.Seq, &d.Code, &d.Label, &d.Status,
		&d.Categories, &d.Body, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

func (s *Postgres) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	where, args := listWhere(collection, q)
	rows, err := s.conn(ctx).Query(ctx,
		`SELECT `+docCols+` FROM documents WHERE `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := s.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// listWhere builds the predicate for List. Category constraints are pushed
// down as a single jsonb containment test.
func listWhere(collection string, q Query) (string, []interface{}) {
	clauses := []string{"collection = $1"}
	args := []interface{}{collection}
	if q.Status != "" {
		args = append(args, q.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	cats := make(map[string]string, len(q.Categories))
	for k, v := range q.Categories {
		if v != "" {
			cats[k] = v
		}
	}
	if len(cats) > 0 {
		raw, _ := json.Marshal(cats)
		args = append(args, string(raw))
		clauses = append(clauses, fmt.Sprintf("categories @> $%d::jsonb", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (s *Postgres) Get(ctx context.Context, collection string, id uuid.UUID) (Document, error) {
	return s.scanRow(s.conn(ctx).QueryRow(ctx,
		`SELECT `+docCols+` FROM documents WHERE collection = $1 AND id = $2`, collection, id))
}

func (s *Postgres) FindByCode(ctx context.Context, collection, code string) (Document, error) {
	return s.scanRow(s.conn(ctx).QueryRow(ctx,
		`SELECT `+docCols+` FROM documents WHERE collection = $1 AND lower(code) = lower($2) ORDER BY seq LIMIT 1`,
		collection, code))
}

func (s *Postgres) Put(ctx context.Context, doc Document) (Document, error) {
	cats := doc.Categories
	if cats == nil {
		cats = map[string]string{}
	}
	err := s.conn(ctx).QueryRow(ctx, `
		INSERT INTO documents (collection, id, code, label, status, categories, body, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (collection, id) DO UPDATE SET
			code = EXCLUDED.code, label = EXCLUDED.label, status = EXCLUDED.status,
			categories = EXCLUDED.categories, body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		RETURNING seq, created_at`,
		doc.Collection, doc.ID, doc.Code, doc.Label, doc.Status, cats, doc.Body,
		doc.CreatedAt, doc.UpdatedAt,
	).Scan(&doc.Seq, &doc.CreatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("put %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return doc, nil
}

func (s *Postgres) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	tag, err := s.conn(ctx).Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close is a no-op; the pool is owned by the caller.
func (s *Postgres) Close() error { return nil }
