package zero2prod

import (
	"context"
	"strings"
)

// NewsletterBroadcaster is the interface that wraps the publish operation.
// Implementations trust the caller to have authenticated the requester.
type NewsletterBroadcaster interface {
	Publish(ctx context.Context, issue Issue, requester Identity) (*BroadcastReport, error)
}

// Issue is a single newsletter issue to broadcast. It is transient input and
// is never persisted.
type Issue struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Validate checks that all three fields are present. It must pass before the
// broadcaster touches storage or the email gateway.
func (i Issue) Validate() error {
	switch {
	case strings.TrimSpace(i.Subject) == "":
		return &Error{Code: ErrInvalid, Message: "subject is required", Op: "Issue.Validate"}
	case strings.TrimSpace(i.HTML) == "":
		return &Error{Code: ErrInvalid, Message: "html body is required", Op: "Issue.Validate"}
	case strings.TrimSpace(i.Text) == "":
		return &Error{Code: ErrInvalid, Message: "text body is required", Op: "Issue.Validate"}
	}
	return nil
}

// DeliveryFailure records one recipient the gateway could not deliver to.
type DeliveryFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// BroadcastReport summarizes one broadcast: every confirmed subscriber is
// attempted exactly once, failures are collected rather than aborting the
// loop.
type BroadcastReport struct {
	Attempted int               `json:"attempted"`
	Delivered int               `json:"delivered"`
	Failures  []DeliveryFailure `json:"failures,omitempty"`
}
