// Package idempotency makes redelivered work run at most once per key,
// tracking progress in Redis.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInProgress   = errors.New("idempotency: operation in progress")
	ErrCompleted    = errors.New("idempotency: operation already completed")
	ErrFailed       = errors.New("idempotency: operation previously failed")
	ErrUnknownState = errors.New("idempotency: unknown state")
)

// State is the stored progress of a key.
type State string

const (
	StateNone       State = ""
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Idempotency guards a unit of work by key.
type Idempotency interface {
	// Exec runs fn only if key has no recorded state. A previous outcome is
	// reported as ErrInProgress, ErrCompleted or ErrFailed.
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

type execOptions struct {
	lock time.Duration
	keep time.Duration
	// retryFailed lets a key whose last run failed be attempted again.
	retryFailed bool
}

// Option tunes Exec.
type Option func(*execOptions)

// WithLockDuration bounds how long an in-progress marker survives a crash.
func WithLockDuration(d time.Duration) Option { return func(o *execOptions) { o.lock = d } }

// WithStateTTL sets how long the final outcome is remembered.
func WithStateTTL(d time.Duration) Option { return func(o *execOptions) { o.keep = d } }

// WithRetryFailed allows another attempt after a failed run.
func WithRetryFailed() Option { return func(o *execOptions) { o.retryFailed = true } }

// Redis implements Idempotency on a Redis client.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// New returns a Redis tracker storing keys under "idempotency:".
func New(client redis.UniversalClient) *Redis {
	return &Redis{client: client, prefix: "idempotency:"}
}

func (r *Redis) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lock: time.Minute, keep: 24 * time.Hour}
	for _, opt := range opts {
		opt(&o)
	}

	k := r.prefix + key
	state, err := r.acquire(ctx, k, o.lock)
	if err != nil {
		return err
	}

	switch state {
	case StateNone:
	case StateInProgress:
		return ErrInProgress
	case StateCompleted:
		return ErrCompleted
	case StateFailed:
		if !o.retryFailed {
			return ErrFailed
		}
		if err := r.client.Set(ctx, k, string(StateInProgress), o.lock).Err(); err != nil {
			return err
		}
	default:
		return ErrUnknownState
	}

	if runErr := fn(ctx); runErr != nil {
		return errors.Join(runErr, r.client.Set(ctx, k, string(StateFailed), o.keep).Err())
	}
	return r.client.Set(ctx, k, string(StateCompleted), o.keep).Err()
}

// acquire sets the in-progress marker, or returns the state already stored.
func (r *Redis) acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	for range 2 {
		ok, err := r.client.SetNX(ctx, key, string(StateInProgress), lock).Result()
		if err != nil {
			return StateNone, err
		}
		if ok {
			return StateNone, nil
		}

		v, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return StateNone, err
		}
		return State(v), nil
	}
	return StateNone, ErrUnknownState
}
