package subscription

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmcclung/zero2prod"
	"github.com/dmcclung/zero2prod/mock"
)

func newService(store zero2prod.SubscriberStore, gateway zero2prod.EmailGateway) *Service {
	return NewService(store, gateway, "http://localhost", "Morning Brew", zerolog.Nop())
}

func TestRegister(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("InsertPendingSubscriber", "ada@example.com", "Ada").Return("sub-1", nil)
	store.On("InsertToken", "sub-1", tmock.AnythingOfType("string")).Return(nil)

	svc := newService(store, &mock.Mailbox{})

	sub, token, err := svc.Register(context.Background(), " ada@example.com ", " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, "ada@example.com", sub.Email)
	assert.Equal(t, "Ada", sub.Name)
	assert.Equal(t, zero2prod.StatusPending, sub.Status)
	assert.GreaterOrEqual(t, len(token), 32)

	store.AssertExpectations(t)
}

func TestRegisterTokensAreUnique(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("InsertPendingSubscriber", tmock.Anything, tmock.Anything).Return("sub-1", nil)
	store.On("InsertToken", "sub-1", tmock.AnythingOfType("string")).Return(nil)

	svc := newService(store, &mock.Mailbox{})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		_, token, err := svc.Register(context.Background(), "ada@example.com", "Ada")
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestRegisterValidationShortCircuits(t *testing.T) {
	store := new(mock.SubscriberStore)
	svc := newService(store, &mock.Mailbox{})

	cases := []struct {
		email string
		name  string
	}{
		{"not-an-email", "Ada"},
		{"@missinglocalpart.com", "Ada"},
		{"   ", "Ada"},
		{"ada@example.com", ""},
		{"ada@example.com", "   "},
		{"ada@example.com", strings.Repeat("x", 51)},
	}
	for _, tc := range cases {
		_, _, err := svc.Register(context.Background(), tc.email, tc.name)
		assert.Error(t, err)
		assert.Equal(t, zero2prod.ErrInvalid, zero2prod.ErrorCode(err))
	}

	// Nothing reaches storage on bad input.
	store.AssertNotCalled(t, "InsertPendingSubscriber", tmock.Anything, tmock.Anything)
	store.AssertNotCalled(t, "InsertToken", tmock.Anything, tmock.Anything)
}

func TestSendConfirmation(t *testing.T) {
	mailbox := &mock.Mailbox{}
	svc := newService(new(mock.SubscriberStore), mailbox)

	sub := &zero2prod.Subscriber{ID: "sub-1", Email: "ada@example.com", Name: "Ada", Status: zero2prod.StatusPending}
	require.NoError(t, svc.SendConfirmation(context.Background(), sub, "tok-123"))

	messages := mailbox.To("ada@example.com")
	require.Len(t, messages, 1)
	assert.Equal(t, "Welcome to Morning Brew!", messages[0].Subject)
	assert.Contains(t, messages[0].HTML, "http://localhost/confirm?token=tok-123")
	assert.Contains(t, messages[0].Text, "http://localhost/confirm?token=tok-123")
}

func TestSendConfirmationDeliveryError(t *testing.T) {
	mailbox := &mock.Mailbox{FailFor: map[string]error{
		"ada@example.com": assert.AnError,
	}}
	svc := newService(new(mock.SubscriberStore), mailbox)

	sub := &zero2prod.Subscriber{ID: "sub-1", Email: "ada@example.com", Name: "Ada"}
	err := svc.SendConfirmation(context.Background(), sub, "tok-123")
	assert.Error(t, err)
	assert.Equal(t, zero2prod.ErrDelivery, zero2prod.ErrorCode(err))
}

func TestConfirm(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("FindSubscriberIDByToken", "tok-123").Return("sub-1", nil)
	store.On("SetConfirmed", "sub-1").Return(nil)
	store.On("DeleteToken", "tok-123").Return(nil)

	svc := newService(store, &mock.Mailbox{})

	require.NoError(t, svc.Confirm(context.Background(), "tok-123"))
	store.AssertExpectations(t)
}

func TestConfirmUnknownToken(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("FindSubscriberIDByToken", "never-issued").
		Return("", &zero2prod.Error{Code: zero2prod.ErrNotFound})

	svc := newService(store, &mock.Mailbox{})

	err := svc.Confirm(context.Background(), "never-issued")
	assert.Error(t, err)
	assert.Equal(t, zero2prod.ErrInvalidToken, zero2prod.ErrorCode(err))
	store.AssertNotCalled(t, "SetConfirmed", tmock.Anything)
	store.AssertNotCalled(t, "DeleteToken", tmock.Anything)
}

func TestConfirmConsumedTokenIsInvalid(t *testing.T) {
	store := new(mock.SubscriberStore)
	// The token was deleted on first redemption, so the lookup misses.
	store.On("FindSubscriberIDByToken", "tok-123").
		Return("", &zero2prod.Error{Code: zero2prod.ErrNotFound})

	svc := newService(store, &mock.Mailbox{})

	err := svc.Confirm(context.Background(), "tok-123")
	assert.Equal(t, zero2prod.ErrInvalidToken, zero2prod.ErrorCode(err))
}

func TestResendPending(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("ListPending").Return([]zero2prod.PendingSubscriber{
		{
			Subscriber: zero2prod.Subscriber{ID: "sub-1", Email: "ada@example.com", Name: "Ada", Status: zero2prod.StatusPending},
			Token:      "tok-ada",
		},
		{
			Subscriber: zero2prod.Subscriber{ID: "sub-2", Email: "bob@example.com", Name: "Bob", Status: zero2prod.StatusPending},
			Token:      "tok-bob",
		},
	}, nil)

	mailbox := &mock.Mailbox{}
	svc := newService(store, mailbox)

	require.NoError(t, svc.ResendPending(context.Background()))

	ada := mailbox.To("ada@example.com")
	require.Len(t, ada, 1)
	assert.Contains(t, ada[0].HTML, "token=tok-ada")

	bob := mailbox.To("bob@example.com")
	require.Len(t, bob, 1)
	assert.Contains(t, bob[0].HTML, "token=tok-bob")
}
