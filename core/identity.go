package core

import "context"

// Identity describes an authenticated caller.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Verifier validates caller-supplied access tokens. An invalid or expired
// token yields a nil Identity with a nil error; a non-nil error indicates the
// verification backend itself failed.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
