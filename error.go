package gqlclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMethodNotSupported is matched by a ConfigurationError raised for a
// request method other than POST.
var ErrMethodNotSupported = errors.New("gqlclient: method not supported")

type ErrorLocation struct {
	Line, Column int
}

// Error is a single entry of a GraphQL response "errors" array.
type Error struct {
	Message    string
	Locations  []ErrorLocation
	Path       []interface{}
	Extensions json.RawMessage
}

func (err *Error) Error() string {
	return "gqlclient: server failure: " + err.Message
}

// ConfigurationError reports an invalid client option. It is returned by
// New before any request is made.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string

	err error
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("gqlclient: invalid %s %q: %s", err.Field, err.Value, err.Reason)
}

func (err *ConfigurationError) Unwrap() error {
	return err.err
}

// TransportError is a transport failure. Response is set when the server
// answered but the transport rejected the status; it is nil for
// connection-level failures.
type TransportError struct {
	Response *http.Response
	Err      error
}

func (err *TransportError) Error() string {
	if err.Response != nil {
		return fmt.Sprintf("gqlclient: HTTP request failed with %s: %v", err.Response.Status, err.Err)
	}
	return fmt.Sprintf("gqlclient: HTTP request failed: %v", err.Err)
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status of the response, or 0 if none.
func (err *TransportError) StatusCode() int {
	if err.Response == nil {
		return 0
	}
	return err.Response.StatusCode
}

// QueryError reports a response body that is not a GraphQL response: it is
// not a JSON object, or carries neither "data" nor "errors".
type QueryError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (err *QueryError) Error() string {
	return fmt.Sprintf("gqlclient: invalid GraphQL response (HTTP %d): %v", err.StatusCode, err.Err)
}

func (err *QueryError) Unwrap() error {
	return err.Err
}
