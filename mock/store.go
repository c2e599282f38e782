package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmcclung/zero2prod"
)

// SubscriberStore is a testify mock of zero2prod.SubscriberStore.
type SubscriberStore struct {
	mock.Mock
}

func (m *SubscriberStore) InsertPendingSubscriber(ctx context.Context, email, name string) (string, error) {
	args := m.Called(email, name)
	return args.String(0), args.Error(1)
}

func (m *SubscriberStore) InsertToken(ctx context.Context, subscriberID, token string) error {
	args := m.Called(subscriberID, token)
	return args.Error(0)
}

func (m *SubscriberStore) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *SubscriberStore) SetConfirmed(ctx context.Context, subscriberID string) error {
	args := m.Called(subscriberID)
	return args.Error(0)
}

func (m *SubscriberStore) DeleteToken(ctx context.Context, token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *SubscriberStore) ListConfirmed(ctx context.Context) ([]zero2prod.Subscriber, error) {
	args := m.Called()
	subscribers, _ := args.Get(0).([]zero2prod.Subscriber)
	return subscribers, args.Error(1)
}

func (m *SubscriberStore) ListPending(ctx context.Context) ([]zero2prod.PendingSubscriber, error) {
	args := m.Called()
	pending, _ := args.Get(0).([]zero2prod.PendingSubscriber)
	return pending, args.Error(1)
}

func (m *SubscriberStore) FindCredential(ctx context.Context, username string) (*zero2prod.Credential, error) {
	args := m.Called(username)
	cred, _ := args.Get(0).(*zero2prod.Credential)
	return cred, args.Error(1)
}
