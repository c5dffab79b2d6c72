// internal/app/system/monitor/monitor.go

// Package monitor mirrors operational log lines into a designated monitoring
// channel so failures are operator-visible from inside the chat platform.
// The channel is best-effort: process logs are the source of truth, and a
// failure to reach the channel is itself only logged, never raised.
package monitor

import (
	"go.uber.org/zap"
)

// Sender is the slice of the gateway a Notifier needs.
type Sender interface {
	SendMessage(channelID, content string) error
}

// Notifier writes to the process log always and to the monitor channel when
// it can. A Notifier with an empty channel ID degrades to log-only.
type Notifier struct {
	gw        Sender
	channelID string
	log       *zap.Logger
}

// New creates a Notifier posting to the given monitor channel.
func New(gw Sender, channelID string, logger *zap.Logger) *Notifier {
	return &Notifier{gw: gw, channelID: channelID, log: logger}
}

// Info records an informational message.
func (n *Notifier) Info(msg string, fields ...zap.Field) {
	n.log.Info(msg, fields...)
	n.mirror(msg)
}

// Error records a failure. err may be nil.
func (n *Notifier) Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
		msg = msg + ": " + err.Error()
	}
	n.log.Error(msg, fields...)
	n.mirror(msg)
}

func (n *Notifier) mirror(msg string) {
	if n.gw == nil || n.channelID == "" {
		return
	}
	if err := n.gw.SendMessage(n.channelID, msg); err != nil {
		n.log.Error("failed to post to monitor channel", zap.Error(err))
	}
}
