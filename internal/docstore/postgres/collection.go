// Package postgres stores docstore documents in a single jsonb table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
)

var schema = []string{
	`
create table if not exists documents (
  collection text not null,
  id uuid not null,
  owner_id text not null,
  data jsonb not null default '{}'::jsonb,
  created_at timestamptz not null,
  updated_at timestamptz not null,
  primary key (collection, id)
);`,
	`
create index if not exists documents_owner_newest_idx
  on documents (collection, owner_id, created_at desc, id desc);`,
}

// Collection is a docstore.Collection over a pgx pool. The pool is shared
// and owned by the caller.
type Collection struct {
	db   *pgxpool.Pool
	name string
}

func NewCollection(db *pgxpool.Pool, name string) *Collection {
	return &Collection{db: db, name: name}
}

// Migrate creates the documents table if it does not exist.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate documents: %w", err)
		}
	}
	return nil
}

func (c *Collection) Name() string { return c.name }

func (c *Collection) FindOne(ctx context.Context, f docstore.Filter, opts docstore.FindOptions) (*docstore.Document, error) {
	if f.ID != "" && !docstore.ValidID(f.ID) {
		return nil, docstore.ErrNotFound
	}

	where, args := c.where(f)
	q := `
select id::text, owner_id, data, created_at, updated_at
from documents
where ` + where
	if opts.Newest {
		q += `
order by created_at desc, id desc`
	}
	q += `
limit 1;`

	var (
		doc  docstore.Document
		data []byte
	)
	err := c.db.QueryRow(ctx, q, args...).Scan(&doc.ID, &doc.OwnerID, &data, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	doc.Data = json.RawMessage(data)
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return &doc, nil
}

func (c *Collection) InsertOne(ctx context.Context, in docstore.Document) (string, error) {
	doc, err := docstore.PrepareInsert(in)
	if err != nil {
		return "", err
	}

	const q = `
insert into documents (collection, id, owner_id, data, created_at, updated_at)
values ($1, $2::uuid, $3, $4::jsonb, $5, $6);
`
	if _, err := c.db.Exec(ctx, q, c.name, doc.ID, doc.OwnerID, string(doc.Data), doc.CreatedAt, doc.UpdatedAt); err != nil {
		return "", fmt.Errorf("insert %s: %w", c.name, err)
	}
	return doc.ID, nil
}

func (c *Collection) UpdateOne(ctx context.Context, f docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	if f.ID != "" && !docstore.ValidID(f.ID) {
		return docstore.UpdateResult{}, nil
	}

	patch := []byte("{}")
	if len(u.Set) > 0 {
		b, err := json.Marshal(u.Set)
		if err != nil {
			return docstore.UpdateResult{}, fmt.Errorf("%w: %v", docstore.ErrInvalidDocument, err)
		}
		patch = b
	}

	where, args := c.where(f)
	n := len(args)
	args = append(args, string(patch), u.At.UTC())

	// One row only, locked for the duration of the statement.
	q := `
update documents
set data = data || $` + strconv.Itoa(n+1) + `::jsonb,
    updated_at = greatest($` + strconv.Itoa(n+2) + `::timestamptz, updated_at + interval '1 microsecond')
where (collection, id) in (
  select collection, id from documents
  where ` + where + `
  limit 1
  for update
);`

	ct, err := c.db.Exec(ctx, q, args...)
	if err != nil {
		return docstore.UpdateResult{}, fmt.Errorf("update %s: %w", c.name, err)
	}
	return docstore.UpdateResult{Matched: ct.RowsAffected()}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, f docstore.Filter) (docstore.DeleteResult, error) {
	if f.ID != "" && !docstore.ValidID(f.ID) {
		return docstore.DeleteResult{}, nil
	}

	where, args := c.where(f)
	q := `
delete from documents
where (collection, id) in (
  select collection, id from documents
  where ` + where + `
  limit 1
  for update
);`

	ct, err := c.db.Exec(ctx, q, args...)
	if err != nil {
		return docstore.DeleteResult{}, fmt.Errorf("delete %s: %w", c.name, err)
	}
	return docstore.DeleteResult{Deleted: ct.RowsAffected()}, nil
}

func (c *Collection) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// Close is a no-op; the pool belongs to whoever opened it.
func (c *Collection) Close() error { return nil }

// where renders the filter as a SQL predicate with positional args.
func (c *Collection) where(f docstore.Filter) (string, []any) {
	clauses := []string{"collection = $1"}
	args := []any{c.name}
	if f.ID != "" {
		args = append(args, f.ID)
		clauses = append(clauses, "id = $"+strconv.Itoa(len(args))+"::uuid")
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		clauses = append(clauses, "owner_id = $"+strconv.Itoa(len(args)))
	}
	return strings.Join(clauses, " and "), args
}
