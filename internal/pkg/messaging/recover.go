package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/coursebell/internal/pkg/stacktrace"
)

// callHandlerWithRecover turns a handler panic into ErrHandlerPanic so the
// consumer loop keeps running and the message is nacked.
func callHandlerWithRecover(ctx context.Context, driver string, msg Message, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		raw := debug.Stack()
		var stack any = string(raw)
		if paths := stacktrace.InternalPaths(raw); len(paths) > 0 {
			stack = paths
		}
		slog.ErrorContext(ctx, "messaging: handler panicked",
			"driver", driver,
			"topic", msg.Topic(),
			"message_id", msg.ID(),
			"panic", rvr,
			"stack", stack,
		)
		err = fmt.Errorf("%w: %s on %s: %v", ErrHandlerPanic, driver, msg.Topic(), rvr)
	}()

	return fn()
}
