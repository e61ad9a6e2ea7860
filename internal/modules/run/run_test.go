// README: Run service tests with in-memory store, cache and AI fakes.
package run

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepool/internal/ai"
	"ridepool/internal/modules/aiusage"
	"ridepool/internal/types"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type memStore struct {
	mu   sync.Mutex
	runs map[string]*Run
}

func newMemStore() *memStore { return &memStore{runs: map[string]*Run{}} }

func (m *memStore) Create(_ context.Context, r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[r.ID]; ok {
		return fmt.Errorf("duplicate id %s", r.ID)
	}
	cp := *r
	m.runs[r.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, from, to Status, res *Result) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if res != nil {
		r.Stats, r.Output, r.Error, r.Cached = res.Stats, res.Output, res.Error, res.Cached
		t := res.CompletedAt
		r.CompletedAt = &t
	}
	return true, nil
}

func (m *memStore) List(_ context.Context, limit int) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCache struct {
	data map[string]CachedResult
	sets int
	err  error
}

func (c *memCache) Get(_ context.Context, key string) (*CachedResult, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *memCache) Set(_ context.Context, key string, v CachedResult) error {
	if c.data == nil {
		c.data = map[string]CachedResult{}
	}
	c.sets++
	c.data[key] = v
	return nil
}

type fakeProvider struct {
	got ai.RunSummary
}

func (f *fakeProvider) SummarizeRun(_ context.Context, run ai.RunSummary) (*ai.Insight, error) {
	f.got = run
	return &ai.Insight{Headline: fmt.Sprintf("%d pooled", run.Stats.PooledRides)}, nil
}

const sharedTrip = "2 1 10 5 5 0.5 2\n1 0 0 0 0 10\n2 1 0 0 0 10\n"

type countingQuota struct {
	left  int
	calls []string
}

func (q *countingQuota) UseToken(_ context.Context, uid string) error {
	q.calls = append(q.calls, uid)
	if q.left == 0 {
		return aiusage.ErrInsufficientTokens
	}
	q.left--
	return nil
}

func newTestService(cache Cache, p ai.Provider) (*Service, *memStore) {
	return newTestServiceWithQuota(cache, p, nil)
}

func newTestServiceWithQuota(cache Cache, p ai.Provider, q Quota) (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, cache, p, q)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc, store
}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusQueued, StatusRunning, true},
		{StatusQueued, StatusCompleted, true},
		{StatusRunning, StatusCompleted, true},
		{StatusRunning, StatusFailed, true},
		{StatusCompleted, StatusRunning, false},
		{StatusFailed, StatusQueued, false},
		{StatusRunning, StatusQueued, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestSubmit_CompletesAndCaches(t *testing.T) {
	cache := &memCache{}
	svc, store := newTestService(cache, nil)
	ctx := context.Background()

	r, err := svc.Submit(ctx, SubmitCommand{Input: sharedTrip, Owner: "u1"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, "u1", r.Owner)
	assert.Equal(t, 2, r.DemandCount)
	assert.Equal(t, 2, r.Params.Capacity)
	assert.Equal(t, "10.00 10.00 2.00 4 0.00 0.00 0.00 0.00 0.00 10.00 0.00 10.00\n", r.Output)
	assert.Equal(t, 1, r.Stats.PooledRides)
	assert.False(t, r.Cached)
	require.NotNil(t, r.CompletedAt)
	assert.Equal(t, 1, cache.sets)

	stored, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, r.Output, stored.Output)
}

func TestSubmit_CacheHitStillRecordsRun(t *testing.T) {
	cache := &memCache{}
	svc, _ := newTestService(cache, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitCommand{Input: sharedTrip})
	require.NoError(t, err)
	// Same tokens, different layout.
	second, err := svc.Submit(ctx, SubmitCommand{Input: "2 1 10 5 5 0.5 2 1 0 0 0 0 10 2 1 0 0 0 10"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.Cached)
	assert.Equal(t, StatusCompleted, second.Status)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, 1, cache.sets)

	runs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSubmit_SortFlagChangesCacheKey(t *testing.T) {
	assert.NotEqual(t, InputHash(sharedTrip, false), InputHash(sharedTrip, true))
	assert.Equal(t, InputHash(sharedTrip, false), InputHash("  2 1 10 5 5 0.5 2\t1 0 0 0 0 10 2 1 0 0 0 10\n\n", false))
}

func TestSubmit_CacheErrorFallsBackToSimulation(t *testing.T) {
	svc, _ := newTestService(&memCache{err: errors.New("redis down")}, nil)
	r, err := svc.Submit(context.Background(), SubmitCommand{Input: sharedTrip})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.False(t, r.Cached)
}

func TestSubmit_InvalidInputCreatesNoRun(t *testing.T) {
	svc, store := newTestService(nil, nil)
	_, err := svc.Submit(context.Background(), SubmitCommand{Input: "2 0 10 5 5 0.5 1\n1 0 0 0 0 1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
	assert.Empty(t, store.runs)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestGetAndOutput(t *testing.T) {
	svc, store := newTestService(nil, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Output(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	r, err := svc.Submit(ctx, SubmitCommand{Input: sharedTrip})
	require.NoError(t, err)
	out, err := svc.Output(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Output, out)

	require.NoError(t, store.Create(ctx, &Run{ID: "pending", Status: StatusRunning}))
	_, err = svc.Output(ctx, "pending")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestList_ClampsLimit(t *testing.T) {
	svc, store := newTestService(nil, nil)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		require.NoError(t, store.Create(ctx, &Run{ID: fmt.Sprintf("r%03d", i), Status: StatusCompleted, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	runs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, DefaultListLimit)
	assert.Equal(t, "r119", runs[0].ID)

	runs, err = svc.List(ctx, 500)
	require.NoError(t, err)
	assert.Len(t, runs, MaxListLimit)

	runs, err = svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestInsight(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(nil, nil)
	_, err := svc.Insight(ctx, "any", "")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)

	p := &fakeProvider{}
	svc, _ = newTestService(nil, p)
	r, err := svc.Submit(ctx, SubmitCommand{Input: sharedTrip})
	require.NoError(t, err)

	got, err := svc.Insight(ctx, r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "1 pooled", got.Headline)
	assert.Equal(t, []string{"10.00 10.00 2.00 4 0.00 0.00 0.00 0.00 0.00 10.00 0.00 10.00"}, p.got.SampleLines)
	assert.Equal(t, 2, p.got.Params.Capacity)
}

func TestInsight_SpendsCallerQuota(t *testing.T) {
	ctx := context.Background()
	q := &countingQuota{left: 1}
	svc, _ := newTestServiceWithQuota(nil, &fakeProvider{}, q)
	r, err := svc.Submit(ctx, SubmitCommand{Input: sharedTrip})
	require.NoError(t, err)

	_, err = svc.Insight(ctx, r.ID, "u1")
	require.NoError(t, err)
	_, err = svc.Insight(ctx, r.ID, "u1")
	assert.ErrorIs(t, err, aiusage.ErrInsufficientTokens)

	// Anonymous callers are not metered.
	_, err = svc.Insight(ctx, r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u1"}, q.calls)

	// Missing runs never spend tokens.
	_, err = svc.Insight(ctx, "missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, q.calls, 2)
}
