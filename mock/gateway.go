package mock

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmcclung/zero2prod"
)

// EmailGateway is a testify mock of zero2prod.EmailGateway.
type EmailGateway struct {
	mock.Mock
}

func (m *EmailGateway) Send(ctx context.Context, email zero2prod.Email) error {
	args := m.Called(email)
	return args.Error(0)
}

// Mailbox is an in-memory EmailGateway that records every message it is
// asked to deliver. Safe for concurrent use.
type Mailbox struct {
	mu       sync.Mutex
	messages []zero2prod.Email

	// FailFor lists recipients delivery should fail for.
	FailFor map[string]error
}

func (mb *Mailbox) Send(ctx context.Context, email zero2prod.Email) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if err, ok := mb.FailFor[email.To]; ok {
		return err
	}

	mb.messages = append(mb.messages, email)
	return nil
}

// Messages returns a copy of everything delivered so far.
func (mb *Mailbox) Messages() []zero2prod.Email {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	out := make([]zero2prod.Email, len(mb.messages))
	copy(out, mb.messages)
	return out
}

// To returns the messages delivered to one recipient.
func (mb *Mailbox) To(email string) []zero2prod.Email {
	var out []zero2prod.Email
	for _, m := range mb.Messages() {
		if m.To == email {
			out = append(out, m)
		}
	}
	return out
}
