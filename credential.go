package zero2prod

import "context"

// Credential is an operator login as stored: a unique username and a bcrypt
// password hash. Credentials are provisioned out of band and are read-only
// here; the raw password is never persisted or logged.
type Credential struct {
	Username     string `storm:"id"`
	PasswordHash string
}

// Identity is a validated operator, as returned by the credential validator.
type Identity struct {
	Username string
}

// CredentialValidator verifies a username/password pair against stored
// credentials. Unknown users and wrong passwords are indistinguishable to
// callers.
type CredentialValidator interface {
	Validate(ctx context.Context, username, password string) (*Identity, error)
}
