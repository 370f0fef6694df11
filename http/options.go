// Package http fetches remote sources over HTTP: whole bodies for lazy
// collection entries, and byte ranges for sniffing remote containers.
package http //nolint:revive // package name mirrors the transport it wraps

import nethttp "net/http"

type config struct {
	client  *nethttp.Client
	headers nethttp.Header
}

// Option configures a Fetcher or a RangeReader.
type Option func(*config)

// WithClient sets the HTTP client used for requests.
func WithClient(client *nethttp.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) Option {
	return func(c *config) {
		if headers == nil {
			return
		}
		c.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) Option {
	return func(c *config) {
		if c.headers == nil {
			c.headers = make(nethttp.Header)
		}
		c.headers.Set(key, value)
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.client == nil {
		c.client = nethttp.DefaultClient
	}
	return c
}

func (c config) apply(req *nethttp.Request) {
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
}
