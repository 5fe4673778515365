// Package httpretry is the shared retry policy for outbound API calls:
// capped exponential backoff with a fixed attempt budget, applied uniformly
// to every upstream the assistant talks to.
package httpretry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds an outbound call: at most Attempts tries, waiting an
// exponentially growing interval between them, capped at Max.
type Policy struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// Default mirrors the rate-fetch contract: 3 attempts, backoff starting at
// 4s and capped at 10s.
var Default = Policy{Attempts: 3, Initial: 4 * time.Second, Max: 10 * time.Second}

// Do runs op until it succeeds, the attempt budget is spent, or ctx is done.
// The error of the last attempt is returned.
func (p Policy) Do(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.MaxInterval = p.Max
	b.MaxElapsedTime = 0 // attempts are the budget, not wall time
	retries := uint64(0)
	if p.Attempts > 1 {
		retries = uint64(p.Attempts - 1)
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx))
}

// Do runs op under the default policy.
func Do(ctx context.Context, op func() error) error {
	return Default.Do(ctx, op)
}

// Permanent marks err as not worth retrying; Do returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
