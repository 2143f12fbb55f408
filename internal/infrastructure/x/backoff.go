package x

import "time"

// Signal describes why a retry is being considered. ResetAt is only set for
// rate-limit responses that carried a server-supplied resume time.
type Signal struct {
	RateLimited bool
	ResetAt     time.Time
}

// Policy computes the wait before the next publish attempt. Tests inject a
// zero-delay policy to assert retry decisions without real time passing.
type Policy interface {
	NextDelay(attempt int, signal Signal) time.Duration
}

// FixedDelayPolicy waits a constant RetryDelay between ordinary retries. For
// rate limits it honors the server reset time, clamped to RetryDelay as the
// minimum.
type FixedDelayPolicy struct {
	RetryDelay time.Duration
	Now        func() time.Time
}

// NextDelay implements Policy.
func (p FixedDelayPolicy) NextDelay(attempt int, signal Signal) time.Duration {
	if !signal.RateLimited {
		return p.RetryDelay
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	wait := signal.ResetAt.Sub(now())
	if wait < p.RetryDelay {
		wait = p.RetryDelay
	}
	return wait
}
