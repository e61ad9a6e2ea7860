// README: Run service; parses submissions, runs simulations and records their outcome.
package run

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridepool/internal/ai"
	"ridepool/internal/modules/simulation"
	"ridepool/internal/textio"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Quota meters insight requests per caller.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
}

type Service struct {
	store   Store
	cache   Cache
	insight ai.Provider
	quota   Quota
	now     func() time.Time
}

// NewService wires a run service. A nil cache disables caching, a nil
// provider makes Insight return ai.ErrNotConfigured and a nil quota leaves
// insights unmetered.
func NewService(store Store, cache Cache, insight ai.Provider, quota Quota) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{store: store, cache: cache, insight: insight, quota: quota, now: time.Now}
}

type SubmitCommand struct {
	Input string
	Sort  bool
	Owner string
}

// Submit runs one simulation and records it. Malformed input is rejected
// before a run is created; the returned error wraps types.ErrInvalidParameter.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*Run, error) {
	in, err := textio.Parse(strings.NewReader(cmd.Input))
	if err != nil {
		return nil, err
	}

	r := &Run{
		ID:          uuid.NewString(),
		Owner:       cmd.Owner,
		Status:      StatusQueued,
		Params:      in.Params,
		SortInput:   cmd.Sort,
		DemandCount: len(in.Demands),
		InputHash:   InputHash(cmd.Input, cmd.Sort),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}

	if hit, ok, err := s.cache.Get(ctx, r.InputHash); err != nil {
		log.Printf("[RUN] cache get %s: %v", r.ID, err)
	} else if ok {
		res := &Result{Stats: hit.Stats, Output: hit.Output, Cached: true, CompletedAt: s.now().UTC()}
		if err := s.transition(ctx, r, StatusCompleted, res); err != nil {
			return nil, err
		}
		log.Printf("[RUN] %s served from cache", r.ID)
		return r, nil
	}

	if err := s.transition(ctx, r, StatusRunning, nil); err != nil {
		return nil, err
	}

	start := time.Now()
	rep, simErr := simulation.Simulate(in, simulation.Options{SortInput: cmd.Sort})
	if simErr != nil {
		res := &Result{Error: simErr.Error(), CompletedAt: s.now().UTC()}
		if err := s.transition(ctx, r, StatusFailed, res); err != nil {
			return nil, err
		}
		log.Printf("[RUN] %s failed: %v", r.ID, simErr)
		return r, nil
	}

	res := &Result{Stats: rep.Stats, Output: textio.Render(rep.Completions), CompletedAt: s.now().UTC()}
	if err := s.transition(ctx, r, StatusCompleted, res); err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, r.InputHash, CachedResult{Output: res.Output, Stats: res.Stats}); err != nil {
		log.Printf("[RUN] cache set %s: %v", r.ID, err)
	}
	log.Printf("[RUN] %s completed demands=%d rides=%d in %s", r.ID, rep.Stats.Demands, rep.Stats.Rides, time.Since(start))
	return r, nil
}

// transition persists the status change and mirrors it on r.
func (s *Service) transition(ctx context.Context, r *Run, to Status, res *Result) error {
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, r.Status, to)
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, to, res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	r.Status = to
	if res != nil {
		r.Stats = res.Stats
		r.Output = res.Output
		r.Error = res.Error
		r.Cached = res.Cached
		t := res.CompletedAt
		r.CompletedAt = &t
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Run, error) {
	return s.store.Get(ctx, id)
}

// List returns the latest runs, newest first. Non-positive limits fall back
// to DefaultListLimit and larger ones are capped at MaxListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.store.List(ctx, limit)
}

// Output returns the completion lines of a completed run.
func (s *Service) Output(ctx context.Context, id string) (string, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if r.Status != StatusCompleted {
		return "", fmt.Errorf("%w: run is %s", ErrInvalidState, r.Status)
	}
	return r.Output, nil
}

// Insight asks the configured AI provider to explain a completed run. Each
// call by an authenticated caller spends one quota token.
func (s *Service) Insight(ctx context.Context, id, caller string) (*ai.Insight, error) {
	if s.insight == nil {
		return nil, ai.ErrNotConfigured
	}
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: run is %s", ErrInvalidState, r.Status)
	}
	if s.quota != nil && caller != "" {
		if err := s.quota.UseToken(ctx, caller); err != nil {
			return nil, err
		}
	}
	return s.insight.SummarizeRun(ctx, ai.RunSummary{
		Params:      r.Params,
		Stats:       r.Stats,
		SampleLines: strings.Split(strings.TrimSuffix(r.Output, "\n"), "\n"),
	})
}

// InputHash identifies an input independent of its whitespace layout.
func InputHash(input string, sorted bool) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(strings.Fields(input), " ")))
	if sorted {
		h.Write([]byte("|sorted"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
