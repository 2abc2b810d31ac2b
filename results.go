package gqlclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Results is a decoded GraphQL response. GraphQL errors are part of the
// results, they are not returned as Go errors.
type Results struct {
	StatusCode int
	Header     http.Header

	body   []byte
	data   json.RawMessage
	errors []Error
}

// NewResults reads and closes the response body. It fails with a
// *QueryError if the body is not a JSON object with "data" or "errors".
func NewResults(resp *http.Response) (*Results, error) {
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response payload: %w", err)
	}
	r := &Results{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		body:       b,
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, &QueryError{StatusCode: resp.StatusCode, Body: b, Err: err}
	}
	data, hasData := fields["data"]
	rawErrors, hasErrors := fields["errors"]
	if !hasData && !hasErrors {
		return nil, &QueryError{
			StatusCode: resp.StatusCode,
			Body:       b,
			Err:        errors.New(`response has neither "data" nor "errors"`),
		}
	}
	if hasErrors {
		if err := json.Unmarshal(rawErrors, &r.errors); err != nil {
			return nil, &QueryError{StatusCode: resp.StatusCode, Body: b, Err: fmt.Errorf("malformed errors: %w", err)}
		}
	}
	r.data = data
	return r, nil
}

func (r *Results) HasErrors() bool {
	return len(r.errors) > 0
}

func (r *Results) Errors() []Error {
	return r.errors
}

// Data returns the raw "data" member. It is nil if the response had none.
func (r *Results) Data() json.RawMessage {
	return r.data
}

// DecodeData unmarshals the "data" member into v. A missing or null
// member leaves v untouched.
func (r *Results) DecodeData(v interface{}) error {
	if len(r.data) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.data, v); err != nil {
		return fmt.Errorf("failed to decode response payload: %v", err)
	}
	return nil
}

// Map returns the whole response in associative form.
func (r *Results) Map() (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(r.body, &m); err != nil {
		return nil, fmt.Errorf("failed to decode response payload: %v", err)
	}
	return m, nil
}

// Body returns the response body as received.
func (r *Results) Body() []byte {
	return r.body
}
