// README: Run persistence contract and shared row helpers.
package run

import (
	"context"
	"encoding/json"
	"time"
)

// Store persists runs. UpdateStatus only applies when the stored status is
// still from and reports whether a row changed.
type Store interface {
	Create(ctx context.Context, r *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	UpdateStatus(ctx context.Context, id string, from, to Status, res *Result) (bool, error)
	List(ctx context.Context, limit int) ([]*Run, error)
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeRow(r *Run, params, stats string) error {
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return err
	}
	if stats == "" {
		return nil
	}
	return json.Unmarshal([]byte(stats), &r.Stats)
}

// update holds the column values written by UpdateStatus. Nil results leave
// the result columns untouched.
type update struct {
	set         bool
	stats       string
	output      string
	errMsg      string
	cached      bool
	completedAt time.Time
}

func newUpdate(res *Result) (update, error) {
	if res == nil {
		return update{}, nil
	}
	stats, err := encodeJSON(res.Stats)
	if err != nil {
		return update{}, err
	}
	return update{
		set:         true,
		stats:       stats,
		output:      res.Output,
		errMsg:      res.Error,
		cached:      res.Cached,
		completedAt: res.CompletedAt,
	}, nil
}
