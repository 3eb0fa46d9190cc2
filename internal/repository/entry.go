package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/pagination"
	"github.com/cloo-solutions/faqd/internal/service"
)

// dbtx is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const entryColumns = `id, question, answer, embedding, created_at, updated_at`

type EntryRepository struct {
	db dbtx
}

func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: pool}
}

func (r *EntryRepository) List(ctx context.Context) ([]*domain.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM faq_entries ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

func (r *EntryRepository) ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.EntryPageResult, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+entryColumns+`
			 FROM faq_entries
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+entryColumns+`
			 FROM faq_entries
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanEntryRows(rows)
	if err != nil {
		return nil, err
	}

	items, hasMore := pagination.Trim(items, limit)
	nextCursor := pagination.NextCursor(items, hasMore,
		func(e *domain.Entry) string { return e.ID },
		func(e *domain.Entry) time.Time { return e.CreatedAt },
	)

	return &service.EntryPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM faq_entries WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// Create inserts the full record, embedding included, in one statement.
func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO faq_entries (id, question, answer, embedding, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Question, e.Answer, pgvector.NewVector(e.Embedding), e.CreatedAt, e.UpdatedAt,
	)
	return err
}

// Update replaces question, answer and embedding together and fills e.CreatedAt
// from the stored row. Zero matched rows is ErrEntryNotFound.
func (r *EntryRepository) Update(ctx context.Context, e *domain.Entry) error {
	err := r.db.QueryRow(ctx,
		`UPDATE faq_entries SET question = $1, answer = $2, embedding = $3, updated_at = $4
		 WHERE id = $5
		 RETURNING created_at`,
		e.Question, e.Answer, pgvector.NewVector(e.Embedding), e.UpdatedAt, e.ID,
	).Scan(&e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEntryNotFound
		}
		return err
	}
	return nil
}

// Delete removes the entry and returns the number of rows removed.
func (r *EntryRepository) Delete(ctx context.Context, id string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM faq_entries WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	var embedding pgvector.Vector
	if err := row.Scan(&e.ID, &e.Question, &e.Answer, &embedding, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Embedding = embedding.Slice()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}

func scanEntryRows(rows pgx.Rows) ([]*domain.Entry, error) {
	results := []*domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
