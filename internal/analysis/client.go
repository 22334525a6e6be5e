// Package analysis encapsulates the wire contract to the remote analysis
// service: multipart submission, response normalization, error classification
// and health probing.
package analysis

import (
	"context"

	"github.com/HEMANT2027/StreamSightAI/internal/domain"
)

// Client is the interface the conversation layer talks to.
type Client interface {
	// Submit sends a prompt (and optionally a media attachment) under the
	// given session token and returns the service's reply as plain text.
	// Failures are classified: see errors.go.
	Submit(ctx context.Context, prompt string, media *domain.Attachment, sessionID string) (string, error)

	// Health probes the service liveness endpoint. It returns false on any
	// failure, including timeouts; it never returns an error.
	Health(ctx context.Context) bool

	// Name identifies the endpoint for logging.
	Name() string
}
