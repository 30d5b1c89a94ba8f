package session

import (
	"context"
	"time"

	"trademind/internal/domain"
	"trademind/internal/pkg/apperr"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 500 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ResolveProfile fetches userID's profile, retrying up to MaxAttempts times
// while none exists yet. After attempt i (0-based) it waits RetryDelay*(i+1).
// Connection and recursion failures abort at once and are returned; running
// out of attempts yields (nil, nil).
func (c *Controller) ResolveProfile(ctx context.Context, userID string) (*domain.User, error) {
	for i := 0; i < c.opts.MaxAttempts; i++ {
		profile, err := c.profiles.GetProfile(ctx, userID)
		if err != nil {
			err = apperr.Classify(err)
			if apperr.IsConnection(err) || apperr.IsRecursion(err) {
				return nil, err
			}
			c.log.Warn().Err(err).Str("user_id", userID).Int("attempt", i+1).Msg("profile fetch failed")
		} else if profile != nil {
			return profile, nil
		}

		if err := c.opts.Sleep(ctx, c.opts.RetryDelay*time.Duration(i+1)); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
