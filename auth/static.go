package auth

import (
	"context"
	"sync"

	"github.com/hupe1980/researchmesh/core"
)

// StaticVerifier resolves tokens against a fixed in-memory map. Unknown
// tokens are invalid (nil identity, nil error). Intended for tests and
// single-user local deployments.
type StaticVerifier struct {
	mu     sync.RWMutex
	tokens map[string]core.Identity
}

// NewStaticVerifier constructs an empty static verifier.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{tokens: make(map[string]core.Identity)}
}

// Add registers a token for an identity.
func (v *StaticVerifier) Add(token string, identity core.Identity) {
	v.mu.Lock()
	v.tokens[token] = identity
	v.mu.Unlock()
}

// Verify implements core.Verifier.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*core.Identity, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	identity, ok := v.tokens[token]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}
