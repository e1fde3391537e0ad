package neoapi

import (
	"fmt"
)

// RemoteRequestError is returned when the server answers 2xx with
// {"success": false}. Message is the server-supplied text.
type RemoteRequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RemoteRequestError) Error() string {
	return e.Message
}

// TransportError covers everything that kept a well-formed 2xx reply from
// arriving: network failures, timeouts, any non-2xx status and undecodable
// bodies.
type TransportError struct {
	Method string
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
