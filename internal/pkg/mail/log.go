package mail

import (
	"context"
	"log/slog"
)

// Log is a Mail implementation that writes messages to the structured log.
type Log struct{}

// NewLog constructs a Log mail sender.
func NewLog() *Log { return &Log{} }

func (*Log) Send(ctx context.Context, msg Message) error {
	if len(msg.Recipients()) == 0 {
		return ErrNoRecipients
	}

	slog.InfoContext(ctx, "email delivered to log",
		"to", msg.To,
		"subject", msg.Subject,
		"message_id", msg.MessageID,
		"text_len", len(msg.TextBody),
		"html_len", len(msg.HTMLBody),
	)
	return nil
}

func (*Log) Close() error { return nil }
