package mail

import (
	"context"
	"io"
)

// Message represents an email payload.
type Message struct {
	// From is an optional explicit sender; the configured default applies when empty.
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	HTMLBody string
	// MessageID is sent as the Message-ID header when set, without brackets.
	MessageID string
}

// Recipients returns To, Cc and Bcc in that order.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
