package aiusage

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists per-caller token balances keyed by month ("2006-01").
type Store interface {
	// UseToken deducts one token, resetting to allowance when month moved on.
	// Returns ErrInsufficientTokens when nothing was updated (quota exhausted or caller absent).
	UseToken(ctx context.Context, uid string, allowance int, month string) error
	// EnsureUser inserts a row with the full allowance unless one exists.
	EnsureUser(ctx context.Context, uid string, allowance int, month string) error
}

const PostgresSchema = `
CREATE TABLE IF NOT EXISTS ai_usage (
    uid              TEXT PRIMARY KEY,
    tokens_remaining INT NOT NULL,
    last_reset_month TEXT NOT NULL
);
`

const SQLiteSchema = PostgresSchema

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

func (s *PostgresStore) UseToken(ctx context.Context, uid string, allowance int, month string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

func (s *PostgresStore) EnsureUser(ctx context.Context, uid string, allowance int, month string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, allowance, month)
	return err
}

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

func (s *SQLiteStore) UseToken(ctx context.Context, uid string, allowance int, month string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != ? THEN ? - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = ?
		WHERE uid = ? AND (last_reset_month < ? OR tokens_remaining > 0)
	`, month, allowance, month, uid, month)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

func (s *SQLiteStore) EnsureUser(ctx context.Context, uid string, allowance int, month string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES (?, ?, ?)
		ON CONFLICT (uid) DO NOTHING
	`, uid, allowance, month)
	return err
}
