package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	uuid "github.com/satori/go.uuid"

	"github.com/dmcclung/zero2prod"
)

type subscriberStore struct {
	db *DB
}

// NewSubscriberStore returns a Postgres-backed subscriber store.
func NewSubscriberStore(db *DB) zero2prod.SubscriberStore {
	return &subscriberStore{
		db: db,
	}
}

// InsertPendingSubscriber persists a new pending subscriber and returns its id
func (ss *subscriberStore) InsertPendingSubscriber(ctx context.Context, email, name string) (string, error) {
	id := uuid.NewV4().String()
	_, err := ss.db.sqlDB.ExecContext(ctx,
		"INSERT INTO subscriptions (id, email, name, status) VALUES ($1, $2, $3, $4)",
		id, email, name, zero2prod.StatusPending)
	if err != nil {
		return "", fmt.Errorf("failed to insert subscriber: %w", err)
	}
	return id, nil
}

// InsertToken associates a confirmation token with a subscriber
func (ss *subscriberStore) InsertToken(ctx context.Context, subscriberID, token string) error {
	_, err := ss.db.sqlDB.ExecContext(ctx,
		"INSERT INTO subscription_tokens (token, subscriber_id) VALUES ($1, $2)",
		token, subscriberID)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

// FindSubscriberIDByToken resolves a token to the owning subscriber id
func (ss *subscriberStore) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	var id string
	err := ss.db.sqlDB.QueryRowContext(ctx,
		"SELECT subscriber_id FROM subscription_tokens WHERE token = $1", token).
		Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &zero2prod.Error{Code: zero2prod.ErrNotFound, Message: "token not found", Op: "postgres.FindSubscriberIDByToken"}
		}
		return "", fmt.Errorf("failed to find by token: %w", err)
	}
	return id, nil
}

// SetConfirmed marks a subscriber confirmed; confirming twice is a no-op
func (ss *subscriberStore) SetConfirmed(ctx context.Context, subscriberID string) error {
	_, err := ss.db.sqlDB.ExecContext(ctx,
		"UPDATE subscriptions SET status = $1 WHERE id = $2",
		zero2prod.StatusConfirmed, subscriberID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// DeleteToken consumes a confirmation token
func (ss *subscriberStore) DeleteToken(ctx context.Context, token string) error {
	_, err := ss.db.sqlDB.ExecContext(ctx,
		"DELETE FROM subscription_tokens WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// ListConfirmed returns every confirmed subscriber
func (ss *subscriberStore) ListConfirmed(ctx context.Context) ([]zero2prod.Subscriber, error) {
	rows, err := ss.db.sqlDB.QueryContext(ctx,
		"SELECT id, email, name, status FROM subscriptions WHERE status = $1",
		zero2prod.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed: %w", err)
	}
	defer rows.Close()

	var subscribers []zero2prod.Subscriber
	for rows.Next() {
		var s zero2prod.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		subscribers = append(subscribers, s)
	}

	return subscribers, rows.Err()
}

// ListPending returns every pending subscriber with its live token
func (ss *subscriberStore) ListPending(ctx context.Context) ([]zero2prod.PendingSubscriber, error) {
	rows, err := ss.db.sqlDB.QueryContext(ctx,
		`SELECT s.id, s.email, s.name, s.status, t.token
		 FROM subscriptions s
		 JOIN subscription_tokens t ON t.subscriber_id = s.id
		 WHERE s.status = $1`,
		zero2prod.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending: %w", err)
	}
	defer rows.Close()

	var pending []zero2prod.PendingSubscriber
	for rows.Next() {
		var p zero2prod.PendingSubscriber
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.Status, &p.Token); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		pending = append(pending, p)
	}

	return pending, rows.Err()
}

// FindCredential looks up an operator credential by username
func (ss *subscriberStore) FindCredential(ctx context.Context, username string) (*zero2prod.Credential, error) {
	var c zero2prod.Credential
	err := ss.db.sqlDB.QueryRowContext(ctx,
		"SELECT username, password_hash FROM users WHERE username = $1", username).
		Scan(&c.Username, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &zero2prod.Error{Code: zero2prod.ErrNotFound, Message: "credential not found", Op: "postgres.FindCredential"}
		}
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}
	return &c, nil
}
