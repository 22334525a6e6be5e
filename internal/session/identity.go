// Package session generates and holds the opaque token that correlates a
// conversation's turns on the remote analysis service.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Identity holds the single active session token for a conversation.
// The token is opaque to the service; it only needs to be collision-resistant
// for the lifetime of the process.
type Identity struct {
	mu    sync.Mutex
	token string
}

// New creates an identity with a freshly generated token.
func New() *Identity {
	return &Identity{token: generate()}
}

// Current returns the active token.
func (id *Identity) Current() string {
	id.mu.Lock()
	defer id.mu.Unlock()
	return id.token
}

// Reset discards the active token and returns a newly generated one. The old
// token is permanently invalid for correlation: there is no session migration.
func (id *Identity) Reset() string {
	id.mu.Lock()
	defer id.mu.Unlock()
	id.token = generate()
	return id.token
}

// generate composes a millisecond timestamp with a random component.
func generate() string {
	frag := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), frag)
}
