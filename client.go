package gqlclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"golang.org/x/oauth2"
)

type Client struct {
	endpoint  string
	transport Transport
	header    http.Header
	logger    *log.Logger
}

type clientOptions struct {
	method     string
	httpClient *http.Client
	transport  Transport
	header     http.Header
	tokens     oauth2.TokenSource
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithHTTPClient sets the HTTP client used by the default transport.
// Timeouts, TLS and proxies are configured there.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTransport replaces the default transport. WithHTTPClient and
// WithTokenSource are ignored when it is set.
func WithTransport(tr Transport) Option {
	return func(o *clientOptions) {
		o.transport = tr
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *clientOptions) {
		o.header.Add(key, value)
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(h http.Header) Option {
	return func(o *clientOptions) {
		for k, values := range h {
			for _, v := range values {
				o.header.Add(k, v)
			}
		}
	}
}

// WithMethod sets the request method. Only POST is supported.
func WithMethod(method string) Option {
	return func(o *clientOptions) {
		o.method = method
	}
}

// WithTokenSource authenticates requests with OAuth2 bearer tokens.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *clientOptions) {
		o.tokens = ts
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

func New(endpoint string, opts ...Option) (*Client, error) {
	o := clientOptions{
		method: http.MethodPost,
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if endpoint == "" {
		return nil, &ConfigurationError{Field: "endpoint", Reason: "endpoint is required"}
	}
	if o.method != http.MethodPost {
		return nil, &ConfigurationError{
			Field:  "method",
			Value:  o.method,
			Reason: "only POST is supported",
			err:    ErrMethodNotSupported,
		}
	}

	tr := o.transport
	if tr == nil {
		hc := o.httpClient
		if hc == nil {
			hc = http.DefaultClient
		}
		if o.tokens != nil {
			authed := *hc
			authed.Transport = &oauth2.Transport{Source: o.tokens, Base: hc.Transport}
			hc = &authed
		}
		tr = NewHTTPTransport(hc)
	}

	header := http.Header{"Accept": {jsonContentType}}
	for k, values := range o.header {
		header[k] = append([]string(nil), values...)
	}
	header.Set("Content-Type", jsonContentType)

	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Client{
		endpoint:  endpoint,
		transport: tr,
		header:    header,
		logger:    logger,
	}, nil
}

// RunQuery resolves src and sends it with vars.
func (c *Client) RunQuery(ctx context.Context, src QuerySource, vars map[string]interface{}) (*Results, error) {
	query, err := src.QueryString()
	if err != nil {
		return nil, err
	}
	return c.RunRawQuery(ctx, query, vars, src.Files())
}

// RunRawQuery sends query with vars and files. A response with status 400
// is decoded like any other GraphQL response; every other transport
// failure is returned unchanged.
func (c *Client) RunRawQuery(ctx context.Context, query string, vars map[string]interface{}, files []File) (*Results, error) {
	b, err := buildBody(query, vars, files)
	if err != nil {
		return nil, err
	}
	defer b.close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, b.r)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %v", err)
	}
	req.Header = c.header.Clone()
	if b.contentType != jsonContentType {
		req.Header.Del("Content-Type")
		req.Header.Set("Content-Type", b.contentType)
	}

	c.logger.Printf("POST %s (%d files)", c.endpoint, len(files))
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return NewResults(resp)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.transport.Send(req)
	if err == nil {
		return resp, nil
	}
	var te *TransportError
	if errors.As(err, &te) && te.Response != nil && te.Response.StatusCode == http.StatusBadRequest {
		c.logger.Printf("status 400 from %s, decoding as GraphQL response", c.endpoint)
		return te.Response, nil
	}
	return nil, err
}

// Execute runs op with its own variables and decodes the response data
// into data. The first GraphQL error, if any, is returned as an *Error.
func (c *Client) Execute(ctx context.Context, op *Operation, data interface{}) error {
	results, err := c.RunQuery(ctx, op, op.vars)
	if err != nil {
		return err
	}
	if results.HasErrors() {
		errs := results.Errors()
		return &errs[0]
	}
	return results.DecodeData(data)
}
