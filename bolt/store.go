package bolt

import (
	"context"

	"github.com/asdine/storm/v3"
	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/dmcclung/zero2prod"
)

// confirmationToken is the storm bucket for live confirmation tokens.
type confirmationToken struct {
	Token        string `storm:"id"`
	SubscriberID string `storm:"index"`
}

type subscriberStore struct {
	db *DB
}

// NewSubscriberStore returns a storm-backed subscriber store for embedded
// deployments.
func NewSubscriberStore(db *DB) zero2prod.SubscriberStore {
	return &subscriberStore{
		db: db,
	}
}

// InsertPendingSubscriber persists a new pending subscriber and returns its id
func (ss *subscriberStore) InsertPendingSubscriber(ctx context.Context, email, name string) (string, error) {
	s := zero2prod.Subscriber{
		ID:     uuid.NewV4().String(),
		Email:  email,
		Name:   name,
		Status: zero2prod.StatusPending,
	}
	if err := ss.db.stormDB.Save(&s); err != nil {
		return "", errors.Errorf("failed to save subscriber: %v", err)
	}

	return s.ID, nil
}

// InsertToken associates a confirmation token with a subscriber
func (ss *subscriberStore) InsertToken(ctx context.Context, subscriberID, token string) error {
	t := confirmationToken{
		Token:        token,
		SubscriberID: subscriberID,
	}
	if err := ss.db.stormDB.Save(&t); err != nil {
		return errors.Errorf("failed to save token: %v", err)
	}

	return nil
}

// FindSubscriberIDByToken resolves a token to the owning subscriber id
func (ss *subscriberStore) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	var t confirmationToken
	if err := ss.db.stormDB.One("Token", token, &t); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return "", &zero2prod.Error{Code: zero2prod.ErrNotFound, Message: "token not found", Op: "bolt.FindSubscriberIDByToken"}
		}
		return "", errors.Errorf("failed to find by token: %v", err)
	}

	return t.SubscriberID, nil
}

// SetConfirmed marks a subscriber confirmed; confirming twice is a no-op
func (ss *subscriberStore) SetConfirmed(ctx context.Context, subscriberID string) error {
	var s zero2prod.Subscriber
	if err := ss.db.stormDB.One("ID", subscriberID, &s); err != nil {
		return errors.Errorf("failed to find subscriber: %v", err)
	}

	s.Status = zero2prod.StatusConfirmed
	if err := ss.db.stormDB.Save(&s); err != nil {
		return errors.Errorf("failed to save subscriber: %v", err)
	}

	return nil
}

// DeleteToken consumes a confirmation token
func (ss *subscriberStore) DeleteToken(ctx context.Context, token string) error {
	if err := ss.db.stormDB.DeleteStruct(&confirmationToken{Token: token}); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return errors.Errorf("failed to delete token: %v", err)
	}

	return nil
}

// ListConfirmed returns every confirmed subscriber
func (ss *subscriberStore) ListConfirmed(ctx context.Context) ([]zero2prod.Subscriber, error) {
	var subscribers []zero2prod.Subscriber
	if err := ss.db.stormDB.Find("Status", zero2prod.StatusConfirmed, &subscribers); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, errors.Errorf("failed to find by status: %v", err)
	}

	return subscribers, nil
}

// ListPending returns every pending subscriber with its live token
func (ss *subscriberStore) ListPending(ctx context.Context) ([]zero2prod.PendingSubscriber, error) {
	var subscribers []zero2prod.Subscriber
	if err := ss.db.stormDB.Find("Status", zero2prod.StatusPending, &subscribers); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Errorf("failed to find by status: %v", err)
	}

	var pending []zero2prod.PendingSubscriber
	for _, s := range subscribers {
		var t confirmationToken
		if err := ss.db.stormDB.One("SubscriberID", s.ID, &t); err != nil {
			if errors.Is(err, storm.ErrNotFound) {
				continue
			}
			return nil, errors.Errorf("failed to find token: %v", err)
		}
		pending = append(pending, zero2prod.PendingSubscriber{Subscriber: s, Token: t.Token})
	}

	return pending, nil
}

// FindCredential looks up an operator credential by username
func (ss *subscriberStore) FindCredential(ctx context.Context, username string) (*zero2prod.Credential, error) {
	var c zero2prod.Credential
	if err := ss.db.stormDB.One("Username", username, &c); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, &zero2prod.Error{Code: zero2prod.ErrNotFound, Message: "credential not found", Op: "bolt.FindCredential"}
		}
		return nil, errors.Errorf("failed to find credential: %v", err)
	}

	return &c, nil
}
