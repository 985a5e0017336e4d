// Package idempotency tracks per-key run state. The processor uses it as a
// schedule lock (Acquire and Release) and the admin router uses Exec to drop
// redelivered command messages.
package idempotency

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: key is locked by another run")
	ErrAlreadyCompleted  = errors.New("idempotency: key already completed")
	ErrAlreadyFailed     = errors.New("idempotency: key failed recently")
	ErrInvalidState      = errors.New("idempotency: unknown stored state")
)

// State is what a tracker remembers for a key.
type State string

const (
	// StateNone means the caller now holds the key.
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	// StateError accompanies a non-nil error from Acquire.
	StateError State = "error"
)

func (s State) String() string { return string(s) }

// Duplicate reports whether err means another run owns or finished the key.
func Duplicate(err error) bool {
	return errors.Is(err, ErrAlreadyInProgress) || errors.Is(err, ErrAlreadyCompleted)
}

// Idempotency is implemented by the redis and the in-memory trackers.
type Idempotency interface {
	// Acquire locks key for lockDuration when it is free and returns
	// StateNone, otherwise it returns the state held by the key.
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	MarkFailed(ctx context.Context, key string, ttl time.Duration) error
	// Release forgets key so the next Acquire succeeds.
	Release(ctx context.Context, key string) error
	// Exec runs fn only when key is free and records its outcome.
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const defaultTTL = time.Minute

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long a crashed run keeps the key locked.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the outcome of a run is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

func parseState(v string) (State, error) {
	switch s := State(v); s {
	case StateInProgress, StateCompleted, StateFailed:
		return s, nil
	default:
		return StateError, ErrInvalidState
	}
}

func exec(ctx context.Context, t Idempotency, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	o.lockDuration = positiveOr(o.lockDuration, defaultTTL)
	o.stateTTL = positiveOr(o.stateTTL, defaultTTL)

	state, err := t.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateNone:
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	default:
		return ErrInvalidState
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, t.MarkFailed(ctx, key, o.stateTTL))
	}

	return t.MarkCompleted(ctx, key, o.stateTTL)
}

func positiveOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
