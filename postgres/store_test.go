package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcclung/zero2prod"
)

func newMockStore(t *testing.T) (zero2prod.SubscriberStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewSubscriberStore(&DB{sqlDB: sqlDB}), mock
}

func TestInsertPendingSubscriber(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs(sqlmock.AnyArg(), "ada@example.com", "Ada", zero2prod.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.InsertPendingSubscriber(context.Background(), "ada@example.com", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertToken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO subscription_tokens").
		WithArgs("tok-123", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.InsertToken(context.Background(), "sub-1", "tok-123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSubscriberIDByToken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT subscriber_id FROM subscription_tokens").
		WithArgs("tok-123").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}).AddRow("sub-1"))

	id, err := store.FindSubscriberIDByToken(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)
}

func TestFindSubscriberIDByTokenNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT subscriber_id FROM subscription_tokens").
		WithArgs("never-issued").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}))

	_, err := store.FindSubscriberIDByToken(context.Background(), "never-issued")
	assert.Equal(t, zero2prod.ErrNotFound, zero2prod.ErrorCode(err))
}

func TestSetConfirmed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE subscriptions SET status").
		WithArgs(zero2prod.StatusConfirmed, "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetConfirmed(context.Background(), "sub-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteToken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM subscription_tokens").
		WithArgs("tok-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteToken(context.Background(), "tok-123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListConfirmed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, email, name, status FROM subscriptions").
		WithArgs(zero2prod.StatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "status"}).
			AddRow("sub-1", "ada@example.com", "Ada", zero2prod.StatusConfirmed).
			AddRow("sub-2", "grace@example.com", "Grace", zero2prod.StatusConfirmed))

	subscribers, err := store.ListConfirmed(context.Background())
	require.NoError(t, err)
	require.Len(t, subscribers, 2)
	assert.Equal(t, "ada@example.com", subscribers[0].Email)
}

func TestListPending(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT s.id, s.email, s.name, s.status, t.token").
		WithArgs(zero2prod.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "status", "token"}).
			AddRow("sub-1", "bob@example.com", "Bob", zero2prod.StatusPending, "tok-bob"))

	pending, err := store.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bob@example.com", pending[0].Email)
	assert.Equal(t, "tok-bob", pending[0].Token)
}

func TestFindCredential(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT username, password_hash FROM users").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash"}).
			AddRow("admin", "$2a$10$abcdefghijklmnopqrstuv"))

	cred, err := store.FindCredential(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", cred.Username)
}

func TestFindCredentialNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT username, password_hash FROM users").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash"}))

	_, err := store.FindCredential(context.Background(), "nobody")
	assert.Equal(t, zero2prod.ErrNotFound, zero2prod.ErrorCode(err))
}
