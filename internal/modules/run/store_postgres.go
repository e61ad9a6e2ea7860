// README: Run store backed by PostgreSQL.
package run

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, PostgresSchema)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, r *Run) error {
	params, err := encodeJSON(r.Params)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO runs (
            id, owner, status, params, sort_input, demand_count, input_hash, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID,
		r.Owner,
		string(r.Status),
		params,
		r.SortInput,
		r.DemandCount,
		r.InputHash,
		r.CreatedAt,
	)
	return err
}

const pgSelect = `
        SELECT id, owner, status, params, sort_input, demand_count, input_hash,
               cached, stats, output, error, created_at, completed_at
        FROM runs`

func (s *PostgresStore) Get(ctx context.Context, id string) (*Run, error) {
	r, err := scanPostgres(s.db.QueryRow(ctx, pgSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, from, to Status, res *Result) (bool, error) {
	u, err := newUpdate(res)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Exec(ctx, `
        UPDATE runs
        SET status = $1,
            stats = CASE WHEN $2 THEN $3::jsonb ELSE stats END,
            output = CASE WHEN $2 THEN $4 ELSE output END,
            error = CASE WHEN $2 THEN $5 ELSE error END,
            cached = CASE WHEN $2 THEN $6 ELSE cached END,
            completed_at = CASE WHEN $2 THEN $7 ELSE completed_at END
        WHERE id = $8 AND status = $9`,
		string(to),
		u.set,
		nullIfEmpty(u.stats),
		u.output,
		u.errMsg,
		u.cached,
		u.completedAt,
		id,
		string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.Query(ctx, pgSelect+` ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanPostgres(row pgx.Row) (*Run, error) {
	var r Run
	var params string
	var stats sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&r.ID, &r.Owner, &r.Status, &params, &r.SortInput, &r.DemandCount, &r.InputHash,
		&r.Cached, &stats, &r.Output, &r.Error, &r.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeRow(&r, params, stats.String); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
