package smtp

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/dmcclung/zero2prod"
)

type gateway struct {
	dialer *gomail.Dialer
	from   string
}

// NewGateway returns an EmailGateway that delivers through an SMTP relay.
// from is the default sender used when a message does not set one.
func NewGateway(host string, port int, username, password, from string) zero2prod.EmailGateway {
	return &gateway{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send attempts synchronous delivery of a single message.
func (g *gateway) Send(ctx context.Context, email zero2prod.Email) error {
	from := email.From
	if from == "" {
		from = g.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	m.SetBody("text/plain", email.Text)
	if email.HTML != "" {
		m.AddAlternative("text/html", email.HTML)
	}

	if err := g.dialer.DialAndSend(m); err != nil {
		return errors.Errorf("failed to send mail to %s: %v", fmt.Sprintf("%+v", email.To), err)
	}

	return nil
}
