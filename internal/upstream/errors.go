package upstream

import (
	"errors"
	"fmt"
)

// NetworkError means no usable response came back at all.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx response. Message carries the server-supplied
// message when the body had one, otherwise it is empty and callers fall
// back to a generic message.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// ValidationError is a request rejected before any network call is made,
// such as a missing one-time token.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DecodeError is a response or persisted record that did not parse.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsServer(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// UserMessage extracts the message to show the user for an auth or search
// failure: the server's own message when one exists, else fallback.
func UserMessage(err error, fallback string) string {
	var server *ServerError
	if errors.As(err, &server) && server.Message != "" {
		return server.Message
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}

	return fallback
}
