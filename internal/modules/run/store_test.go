// README: Store tests against SQLite (in-memory) and PostgreSQL (when RIDEPOOL_TEST_DSN is set).
package run

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepool/internal/infra"
	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/simulation"
)

type migratingStore interface {
	Store
	Migrate(ctx context.Context) error
}

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := infra.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewSQLiteStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("RIDEPOOL_TEST_DSN")
	if dsn == "" {
		t.Skip("RIDEPOOL_TEST_DSN not set; skipping PostgreSQL store tests")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	s := NewPostgresStore(db)
	require.NoError(t, s.Migrate(ctx))
	_, err = db.Exec(ctx, "TRUNCATE TABLE runs")
	require.NoError(t, err)
	return s
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, setupSQLiteStore(t))
}

func TestPostgresStore(t *testing.T) {
	exerciseStore(t, setupPostgresStore(t))
}

func exerciseStore(t *testing.T, s migratingStore) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	params := matching.Params{Capacity: 3, Speed: 50, Window: 30, OriginRadius: 1000, DestinationRadius: 1500, MinEfficiency: 0.6}

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(ctx, &Run{
			ID:          fmt.Sprintf("run-%d", i),
			Owner:       "u1",
			Status:      StatusQueued,
			Params:      params,
			SortInput:   i == 1,
			DemandCount: 10 + i,
			InputHash:   fmt.Sprintf("hash-%d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, got.Status)
	assert.Equal(t, params, got.Params)
	assert.True(t, got.SortInput)
	assert.Equal(t, 11, got.DemandCount)
	assert.True(t, base.Add(time.Minute).Equal(got.CreatedAt))
	assert.Nil(t, got.CompletedAt)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.UpdateStatus(ctx, "run-1", StatusQueued, StatusRunning, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UpdateStatus(ctx, "run-1", StatusQueued, StatusRunning, nil)
	require.NoError(t, err)
	assert.False(t, ok, "stale from status must not apply")

	done := base.Add(time.Hour)
	stats := simulation.Stats{Demands: 11, Rides: 7, PooledRides: 3, MeanEfficiency: 1.25}
	ok, err = s.UpdateStatus(ctx, "run-1", StatusRunning, StatusCompleted, &Result{
		Stats: stats, Output: "1.00 2.00\n", Cached: true, CompletedAt: done,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, stats, got.Stats)
	assert.Equal(t, "1.00 2.00\n", got.Output)
	assert.True(t, got.Cached)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, done.Equal(*got.CompletedAt))

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
}

func TestSQLiteStore_WithService(t *testing.T) {
	svc := NewService(setupSQLiteStore(t), nil, nil, nil)
	ctx := context.Background()

	r, err := svc.Submit(ctx, SubmitCommand{Input: sharedTrip, Owner: "u9"})
	require.NoError(t, err)

	out, err := svc.Output(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00 10.00 2.00 4 0.00 0.00 0.00 0.00 0.00 10.00 0.00 10.00\n", out)

	stored, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "u9", stored.Owner)
	assert.Equal(t, 1, stored.Stats.PooledRides)
}
