package analysis

import (
	"errors"
	"fmt"
)

// Failure taxonomy for Submit. Callers classify with errors.Is / errors.As,
// never by string matching.
var (
	// ErrTimeout means the request exceeded the timeout budget.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork means no response was received at all.
	ErrNetwork = errors.New("network unreachable")
)

// ServerError means the remote responded with a failure status.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// UnexpectedError covers anything else, such as an unreadable response body.
type UnexpectedError struct {
	Message string
}

func (e *UnexpectedError) Error() string {
	return "unexpected error: " + e.Message
}

// UserMessage renders a classified failure as human-readable chat text.
func UserMessage(err error) string {
	var srv *ServerError
	switch {
	case errors.As(err, &srv):
		return fmt.Sprintf("Request failed: %s", srv.Message)
	case errors.Is(err, ErrTimeout):
		return "Request timeout. Please try again."
	case errors.Is(err, ErrNetwork):
		return "Network error. Please check your connection."
	default:
		return "An unexpected error occurred."
	}
}
