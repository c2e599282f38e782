package zero2prod

import "context"

// Email is a fully-formed outbound message. From defaults to the gateway's
// configured sender when empty.
type Email struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// EmailGateway attempts synchronous delivery of a single message. The real
// implementation talks to an SMTP relay; mock.Mailbox records messages in
// memory for tests.
type EmailGateway interface {
	Send(ctx context.Context, email Email) error
}
