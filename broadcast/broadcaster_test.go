package broadcast

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcclung/zero2prod"
	"github.com/dmcclung/zero2prod/mock"
)

var requester = zero2prod.Identity{Username: "admin"}

func confirmed(id, email string) zero2prod.Subscriber {
	return zero2prod.Subscriber{ID: id, Email: email, Name: "Subscriber", Status: zero2prod.StatusConfirmed}
}

func TestPublish(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("ListConfirmed").Return([]zero2prod.Subscriber{
		confirmed("sub-1", "ada@example.com"),
		confirmed("sub-2", "grace@example.com"),
	}, nil)

	mailbox := &mock.Mailbox{}
	b := NewBroadcaster(store, mailbox, zerolog.Nop())

	issue := zero2prod.Issue{Subject: "Issue #1", HTML: "<p>News</p>", Text: "News"}
	report, err := b.Publish(context.Background(), issue, requester)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 2, report.Delivered)
	assert.Empty(t, report.Failures)

	// Each confirmed subscriber is attempted exactly once.
	require.Len(t, mailbox.To("ada@example.com"), 1)
	require.Len(t, mailbox.To("grace@example.com"), 1)

	sent := mailbox.To("ada@example.com")[0]
	assert.Equal(t, "Issue #1", sent.Subject)
	assert.Equal(t, "<p>News</p>", sent.HTML)
	assert.Equal(t, "News", sent.Text)
}

func TestPublishValidatesBeforeStorage(t *testing.T) {
	store := new(mock.SubscriberStore)
	b := NewBroadcaster(store, &mock.Mailbox{}, zerolog.Nop())

	for _, issue := range []zero2prod.Issue{
		{HTML: "<p>News</p>", Text: "News"},
		{Subject: "Issue #1", Text: "News"},
		{Subject: "Issue #1", HTML: "<p>News</p>"},
	} {
		_, err := b.Publish(context.Background(), issue, requester)
		assert.Error(t, err)
		assert.Equal(t, zero2prod.ErrInvalid, zero2prod.ErrorCode(err))
	}

	store.AssertNotCalled(t, "ListConfirmed")
}

func TestPublishCollectsDeliveryFailures(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("ListConfirmed").Return([]zero2prod.Subscriber{
		confirmed("sub-1", "ada@example.com"),
		confirmed("sub-2", "broken@example.com"),
		confirmed("sub-3", "grace@example.com"),
	}, nil)

	mailbox := &mock.Mailbox{FailFor: map[string]error{
		"broken@example.com": assert.AnError,
	}}
	b := NewBroadcaster(store, mailbox, zerolog.Nop())

	issue := zero2prod.Issue{Subject: "Issue #1", HTML: "<p>News</p>", Text: "News"}
	report, err := b.Publish(context.Background(), issue, requester)
	require.NoError(t, err)

	// A mid-list failure never aborts the loop; the tail still goes out.
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Delivered)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "broken@example.com", report.Failures[0].Email)
	require.Len(t, mailbox.To("grace@example.com"), 1)
}

func TestPublishStorageError(t *testing.T) {
	store := new(mock.SubscriberStore)
	store.On("ListConfirmed").Return(nil, assert.AnError)

	b := NewBroadcaster(store, &mock.Mailbox{}, zerolog.Nop())

	issue := zero2prod.Issue{Subject: "Issue #1", HTML: "<p>News</p>", Text: "News"}
	_, err := b.Publish(context.Background(), issue, requester)
	assert.Error(t, err)
	assert.Equal(t, zero2prod.ErrStorage, zero2prod.ErrorCode(err))
}
