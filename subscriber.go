package zero2prod

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Subscriber lifecycle status
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// MaxNameLength is the longest display name accepted at registration.
const MaxNameLength = 50

// Subscriber represents a mailing-list member.
type Subscriber struct {
	ID     string `storm:"id"`
	Email  string `storm:"unique"`
	Name   string
	Status string `storm:"index"`
}

// PendingSubscriber pairs a pending subscriber with its live confirmation
// token, as returned by SubscriberStore.ListPending.
type PendingSubscriber struct {
	Subscriber
	Token string
}

// emailRE is the WHATWG addr-spec pattern: a local part, an @, and one or
// more dot-separated DNS labels.
var emailRE = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// ParseEmail validates an email address for registration. The address is
// trimmed; a malformed address must never reach storage.
func ParseEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !emailRE.MatchString(email) {
		return "", &Error{Code: ErrInvalid, Message: "invalid email address", Op: "ParseEmail"}
	}
	return email, nil
}

// ParseName validates a display name: non-empty after trimming and at most
// MaxNameLength characters.
func ParseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &Error{Code: ErrInvalid, Message: "name must not be empty", Op: "ParseName"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", &Error{Code: ErrInvalid, Message: "name must be at most 50 characters", Op: "ParseName"}
	}
	return name, nil
}

// ConfirmationService is the interface that wraps the double opt-in
// lifecycle operations.
type ConfirmationService interface {
	Register(ctx context.Context, email, name string) (*Subscriber, string, error)
	SendConfirmation(ctx context.Context, sub *Subscriber, token string) error
	Confirm(ctx context.Context, token string) error
	ResendPending(ctx context.Context) error
}

// SubscriptionRequest is the payload of POST /subscriptions.
type SubscriptionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SubscriptionResponse is rendered back to the visitor.
type SubscriptionResponse struct {
	Message string `json:"message"`
}
