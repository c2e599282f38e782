package zero2prod

import "context"

// SubscriberStore is the interface that wraps the storage operations the core
// depends on. Implementations live in postgres, sqlite and bolt.
type SubscriberStore interface {
	// InsertPendingSubscriber persists a new subscriber with status pending
	// and returns its generated id.
	InsertPendingSubscriber(ctx context.Context, email, name string) (string, error)

	// InsertToken associates a fresh confirmation token with a subscriber.
	InsertToken(ctx context.Context, subscriberID, token string) error

	// FindSubscriberIDByToken resolves a presented token to the owning
	// subscriber id. Returns an Error with code ErrNotFound when the token
	// does not exist.
	FindSubscriberIDByToken(ctx context.Context, token string) (string, error)

	// SetConfirmed marks a subscriber confirmed. Confirming an already
	// confirmed subscriber is a no-op.
	SetConfirmed(ctx context.Context, subscriberID string) error

	// DeleteToken consumes a token so it can never be redeemed again.
	DeleteToken(ctx context.Context, token string) error

	// ListConfirmed returns every confirmed subscriber.
	ListConfirmed(ctx context.Context) ([]Subscriber, error)

	// ListPending returns every pending subscriber together with its live
	// token, for confirmation resends.
	ListPending(ctx context.Context) ([]PendingSubscriber, error)

	// FindCredential looks up an operator credential by username. Returns an
	// Error with code ErrNotFound when the username is unknown.
	FindCredential(ctx context.Context, username string) (*Credential, error)
}

// Database is the interface a storage backend's connection handle satisfies.
type Database interface {
	Open() error
	Close() error
}
