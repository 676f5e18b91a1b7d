package client

import (
	"context"
	"time"
)

// ObserveFunc performs one state query against the cluster.
// An error aborts the wait immediately; only mismatches are retried.
type ObserveFunc func(ctx context.Context) (Observed, error)

// Condition describes one check: what to observe and what to expect.
type Condition struct {
	// Description is used in logs and in the AssertionError message
	Description string
	// Resource identifies the objects observed, for diagnostics only
	Resource ResourceRef
	Observe  ObserveFunc
	Expect   Expectation
}

// Backoff returns the wait after the given 1-based attempt.
// The schedule is linear: attempt * step.
func Backoff(attempt int, step time.Duration) time.Duration {
	return time.Duration(attempt) * step
}

// WaitFor polls cond until its expectation holds or the attempt budget is spent.
//
// Attempt i (1-based, i < max retries) observes and compares; on a mismatch the
// engine sleeps i*BackoffStep before the next attempt. No sleep follows the final
// observation. A budget of one or less still observes once. When the budget is
// exhausted the last observed value is returned together with an AssertionError.
func (c *Client) WaitFor(ctx context.Context, cond Condition, opts ...Option) (Observed, error) {
	options := c.options(opts)
	attempts := options.MaxRetries
	log := c.cfg.Logger.WithValues("check", cond.Description, "resource", cond.Resource.String())

	var (
		last     Observed
		observed int
	)
	for i := 1; i < attempts; i++ {
		value, err := cond.Observe(ctx)
		if err != nil {
			return nil, err
		}
		last = value
		observed++

		ok, err := cond.Expect.Match(value)
		if err != nil {
			return last, err
		}
		if ok {
			break
		}
		if i+1 >= attempts {
			break
		}

		delay := Backoff(i, c.cfg.BackoffStep)
		log.Info("Not ready. Wait for "+delay.String(), "attempt", i, "observed", value.String())
		if err := c.cfg.Sleep(ctx, delay); err != nil {
			return last, err
		}
	}

	if observed == 0 {
		value, err := cond.Observe(ctx)
		if err != nil {
			return nil, err
		}
		last = value
		observed++
	}

	return last, c.assert(cond, last, observed)
}

// Assert observes cond exactly once and fails immediately on a mismatch.
// It is used by checks that assume readiness was already awaited.
func (c *Client) Assert(ctx context.Context, cond Condition) (Observed, error) {
	return c.WaitFor(ctx, cond, WithRetries(1))
}

func (c *Client) assert(cond Condition, last Observed, attempts int) error {
	ok, err := cond.Expect.Match(last)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{
			Description: cond.Description,
			Resource:    cond.Resource,
			Expected:    cond.Expect,
			Observed:    last,
			Attempts:    attempts,
			Detail:      Diff(cond.Expect, last),
		}
	}
	c.cfg.Logger.V(1).Info("Check passed", "check", cond.Description, "observed", last.String())
	return nil
}
