// ABOUTME: Error taxonomy for agent calls: TransportError and ServerError
// ABOUTME: Both support errors.As so callers can distinguish unreachable from failing agents

package agent

import (
	"errors"
	"fmt"
)

// TransportError means the agent could not be reached.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: agent unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError means the agent was reached but reported a failure.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: agent returned status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: agent returned status %d", e.Op, e.StatusCode)
}

// IsTransport reports whether err is or wraps a *TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err is or wraps a *ServerError
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
