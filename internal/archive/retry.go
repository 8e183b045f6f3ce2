package archive

import (
	"context"
	"fmt"
	"time"

	"ghvault/internal/providers"
)

// Retrier re-runs a fallible operation with exponential backoff. Only
// errors the Retriable classifier accepts are absorbed; everything else
// propagates on first occurrence. The zero attempt always runs, so an
// operation is invoked at most MaxRetries+1 times.
type Retrier struct {
	MaxRetries    int
	InitialWait   time.Duration
	BackoffFactor float64
	Retriable     func(error) bool
	LogType       providers.TypeEnum

	logger providers.Logger
}

func NewRetrier(maxRetries int, initialWait time.Duration, backoffFactor float64, retriable func(error) bool, logType providers.TypeEnum, logger providers.Logger) *Retrier {
	return &Retrier{
		MaxRetries:    maxRetries,
		InitialWait:   initialWait,
		BackoffFactor: backoffFactor,
		Retriable:     retriable,
		LogType:       logType,
		logger:        logger,
	}
}

// Do runs op until it succeeds, fails non-retriably, exhausts the retry
// budget, or the context is cancelled. The backoff sleep is the only
// place this blocks; cancellation cuts it short.
func (r *Retrier) Do(ctx context.Context, name string, op func() error) error {
	retries := 0
	wait := r.InitialWait

	for {
		err := op()
		if err == nil {
			return nil
		}
		if r.Retriable != nil && !r.Retriable(err) {
			return err
		}

		retries++
		if retries > r.MaxRetries {
			r.logger.Errorf(r.LogType, "Max retries (%d) exceeded for %s: %s", r.MaxRetries, name, err)
			return fmt.Errorf("%s failed after %d retries: %w", name, r.MaxRetries, err)
		}

		r.logger.Warnf(r.LogType, "Retry %d/%d for %s after error: %s. Waiting %s", retries, r.MaxRetries, name, err, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = time.Duration(float64(wait) * r.BackoffFactor)
	}
}
