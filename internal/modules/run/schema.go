package run

// PostgresSchema matches migrations/0001_init.sql.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    owner        TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL,
    params       JSONB NOT NULL,
    sort_input   BOOLEAN NOT NULL DEFAULT FALSE,
    demand_count INTEGER NOT NULL,
    input_hash   TEXT NOT NULL,
    cached       BOOLEAN NOT NULL DEFAULT FALSE,
    stats        JSONB,
    output       TEXT NOT NULL DEFAULT '',
    error        TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at DESC);
CREATE INDEX IF NOT EXISTS runs_input_hash_idx ON runs (input_hash);
`

// SQLiteSchema stores timestamps as unix milliseconds.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    owner        TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL,
    params       TEXT NOT NULL,
    sort_input   INTEGER NOT NULL DEFAULT 0,
    demand_count INTEGER NOT NULL,
    input_hash   TEXT NOT NULL,
    cached       INTEGER NOT NULL DEFAULT 0,
    stats        TEXT,
    output       TEXT NOT NULL DEFAULT '',
    error        TEXT NOT NULL DEFAULT '',
    created_at   INTEGER NOT NULL,
    completed_at INTEGER
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at DESC);
CREATE INDEX IF NOT EXISTS runs_input_hash_idx ON runs (input_hash);
`
