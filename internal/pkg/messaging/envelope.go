package messaging

import (
	"context"
	"sync/atomic"
	"time"
)

// envelope is the received message handed to handlers by every driver.
type envelope struct {
	body    []byte
	key     []byte
	headers []Header
	id      string
	topic   string
	ts      time.Time

	ack  func(ctx context.Context) error
	nack func(ctx context.Context) error

	responded atomic.Bool
}

func (e *envelope) Body() []byte         { return e.body }
func (e *envelope) Key() []byte          { return e.key }
func (e *envelope) Headers() []Header    { return e.headers }
func (e *envelope) ID() string           { return e.id }
func (e *envelope) Topic() string        { return e.topic }
func (e *envelope) Timestamp() time.Time { return e.ts }

func (e *envelope) Ack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.responded.Swap(true) || e.ack == nil {
		return nil
	}
	return e.ack(ctx)
}

func (e *envelope) Nack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.responded.Swap(true) || e.nack == nil {
		return nil
	}
	return e.nack(ctx)
}

// deliver runs the handler with panic recovery and applies auto-ack.
func deliver(ctx context.Context, kind string, env *envelope, handler Handler, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, env, func() error {
		return handler(ctx, env)
	})

	if env.responded.Load() || !autoAck {
		return herr
	}
	if herr == nil {
		return env.Ack(ctx)
	}
	if err := env.Nack(ctx); err != nil {
		return err
	}
	return herr
}
