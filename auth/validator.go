package auth

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/dmcclung/zero2prod"
)

// Validator checks operator credentials against stored bcrypt hashes. All
// hash comparisons run inside a weighted semaphore so a burst of login
// attempts is bounded to a fixed number of concurrent bcrypt computations
// and cannot starve request-serving goroutines.
type Validator struct {
	store     zero2prod.SubscriberStore
	sem       *semaphore.Weighted
	dummyHash []byte
}

// NewValidator returns a credential validator bounded to workers concurrent
// hash comparisons. workers <= 0 defaults to the number of CPUs.
func NewValidator(store zero2prod.SubscriberStore, workers int64) (*Validator, error) {
	if workers <= 0 {
		workers = int64(runtime.NumCPU())
	}

	// The dummy hash burns an equivalent-cost comparison on the unknown-user
	// path, so response latency does not reveal whether a username exists.
	dummy, err := bcrypt.GenerateFromPassword([]byte("no-such-user-placeholder"), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}

	return &Validator{
		store:     store,
		sem:       semaphore.NewWeighted(workers),
		dummyHash: dummy,
	}, nil
}

// Validate verifies a username/password pair. Unknown usernames and wrong
// passwords both come back as invalid_credentials and cost the same wall
// clock.
func (v *Validator) Validate(ctx context.Context, username, password string) (*zero2prod.Identity, error) {
	const op = "auth.Validate"

	cred, err := v.store.FindCredential(ctx, username)
	if err != nil && zero2prod.ErrorCode(err) != zero2prod.ErrNotFound {
		return nil, &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	hash := v.dummyHash
	if cred != nil {
		hash = []byte(cred.PasswordHash)
	}

	if err := v.compare(ctx, hash, password); err != nil || cred == nil {
		return nil, &zero2prod.Error{
			Code:    zero2prod.ErrInvalidCredentials,
			Message: "invalid username or password",
			Op:      op,
		}
	}

	return &zero2prod.Identity{Username: cred.Username}, nil
}

func (v *Validator) compare(ctx context.Context, hash []byte, password string) error {
	if err := v.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer v.sem.Release(1)

	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
