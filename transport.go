package gqlclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport sends a single request. A failure where the server did
// respond must be reported as a *TransportError carrying that response.
type Transport interface {
	Send(req *http.Request) (*http.Response, error)
}

type TransportFunc func(req *http.Request) (*http.Response, error)

func (f TransportFunc) Send(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Doer is implemented by *http.Client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

type httpTransport struct {
	doer Doer
}

// NewHTTPTransport returns a Transport that treats every status >= 400 as
// a failure. The body of a rejected response is buffered so that it stays
// readable after the connection is released.
func NewHTTPTransport(doer Doer) Transport {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &httpTransport{doer: doer}
}

func (tr *httpTransport) Send(req *http.Request) (*http.Response, error) {
	resp, err := tr.doer.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read %s response: %w", resp.Status, err)}
	}
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return nil, &TransportError{
		Response: resp,
		Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
	}
}
