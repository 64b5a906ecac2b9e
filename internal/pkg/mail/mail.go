// Package mail sends email over SMTP.
package mail

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNoRecipients = errors.New("mail: no recipients")
	ErrNoSender     = errors.New("mail: no sender")
	ErrNoHost       = errors.New("mail: smtp host and port are required")
)

// Message is one outgoing email. HTMLBody, when set, is sent as the
// preferred alternative to TextBody.
type Message struct {
	From     string
	To       []string
	Cc       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail delivers messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
