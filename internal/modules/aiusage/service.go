package aiusage

import (
	"context"
	"errors"
	"time"
)

// Service meters insight requests per caller and month.
type Service struct {
	store     Store
	allowance int
	now       func() time.Time
}

// NewService creates a Service granting allowance tokens per month
// (DefaultTokens when allowance is not positive).
func NewService(store Store, allowance int) *Service {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &Service{store: store, allowance: allowance, now: time.Now}
}

// UseToken deducts one token from the caller's monthly allowance.
// If the caller row does not exist yet it is initialised and the token is immediately consumed.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, uid string) error {
	month := s.now().UTC().Format("2006-01")
	err := s.store.UseToken(ctx, uid, s.allowance, month)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid, s.allowance, month); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, uid, s.allowance, month)
}
