// README: Run store backed by SQLite for single-node deployments.
package run

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, SQLiteSchema)
	return err
}

func (s *SQLiteStore) Create(ctx context.Context, r *Run) error {
	params, err := encodeJSON(r.Params)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO runs (
            id, owner, status, params, sort_input, demand_count, input_hash, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Owner,
		string(r.Status),
		params,
		r.SortInput,
		r.DemandCount,
		r.InputHash,
		r.CreatedAt.UnixMilli(),
	)
	return err
}

const sqliteSelect = `
        SELECT id, owner, status, params, sort_input, demand_count, input_hash,
               cached, stats, output, error, created_at, completed_at
        FROM runs`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	r, err := scanSQLite(s.db.QueryRowContext(ctx, sqliteSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, from, to Status, res *Result) (bool, error) {
	u, err := newUpdate(res)
	if err != nil {
		return false, err
	}
	var result sql.Result
	if u.set {
		result, err = s.db.ExecContext(ctx, `
            UPDATE runs
            SET status = ?, stats = ?, output = ?, error = ?, cached = ?, completed_at = ?
            WHERE id = ? AND status = ?`,
			string(to), u.stats, u.output, u.errMsg, u.cached, u.completedAt.UnixMilli(),
			id, string(from),
		)
	} else {
		result, err = s.db.ExecContext(ctx, `UPDATE runs SET status = ? WHERE id = ? AND status = ?`,
			string(to), id, string(from))
	}
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelect+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*Run, error) {
	var r Run
	var params string
	var stats sql.NullString
	var createdAt int64
	var completedAt sql.NullInt64
	err := row.Scan(
		&r.ID, &r.Owner, &r.Status, &params, &r.SortInput, &r.DemandCount, &r.InputHash,
		&r.Cached, &stats, &r.Output, &r.Error, &createdAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeRow(&r, params, stats.String); err != nil {
		return nil, err
	}
	r.CreatedAt = time.UnixMilli(createdAt).UTC()
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		r.CompletedAt = &t
	}
	return &r, nil
}
