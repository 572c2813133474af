package session

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned by OpenModel when the model path does not resolve.
	ErrFileNotFound = errors.New("model file not found")
	// ErrOpenFailed is returned by OpenModel when the application rejects the file.
	ErrOpenFailed = errors.New("model open failed")
	// ErrClosed is returned when a closed session is used.
	ErrClosed = errors.New("session is closed")
)

// ConnectionError reports that no application instance could be attached or launched.
type ConnectionError struct {
	Strategy Strategy
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to analysis application (%s): %v", e.Strategy, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
