// internal/app/system/dispatch/dispatch.go

// Package dispatch enforces the failure-isolation policy at every handler
// boundary in one place: an event handler's error or panic is logged,
// mirrored to the monitor channel, and suppressed. Nothing a handler does
// can take down the gateway event loop or another handler.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/system/monitor"
	"github.com/gptfleet/hellbot/internal/app/system/timeouts"
)

// HandlerFunc is one event handler invocation.
type HandlerFunc func(ctx context.Context) error

// Guard runs fn for a single event under the standard handler deadline,
// tagging every log line with the event name and a correlation ID. Errors
// and panics are converted into logged-and-suppressed outcomes.
func Guard(log *zap.Logger, mon *monitor.Notifier, event string, fn HandlerFunc) {
	GuardTimeout(log, mon, event, timeouts.Long(), fn)
}

// GuardTimeout is Guard with a caller-chosen deadline, for long units of
// work like the startup backfill.
func GuardTimeout(log *zap.Logger, mon *monitor.Notifier, event string, timeout time.Duration, fn HandlerFunc) {
	id := uuid.NewString()
	l := log.With(zap.String("event", event), zap.String("event_id", id))

	defer func() {
		if r := recover(); r != nil {
			l.Error("handler panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			mon.Error(fmt.Sprintf("%s handler panicked (event %s)", event, id), nil)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		l.Error("handler failed", zap.Error(err))
		mon.Error(fmt.Sprintf("%s handler failed (event %s)", event, id), err)
	}
}
