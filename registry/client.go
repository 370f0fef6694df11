package registry

import (
	"log/slog"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/cache"
	"github.com/cheminfo/filelist/registry/oras"
)

// Client pushes and pulls file collections to and from OCI registries.
type Client struct {
	oci            OCIClient
	layerCache     cache.Cache
	collectionOpts []filelist.Option
	logger         *slog.Logger

	// orasOpts configure the default transport when no OCIClient is given.
	orasOpts []oras.Option
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// New creates a Client. Without WithOCIClient, an oras transport is built
// from the pass-through options (WithPlainHTTP, WithDockerConfig, ...).
func New(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.oci == nil {
		orasOpts := c.orasOpts
		if c.logger != nil {
			orasOpts = append(orasOpts, oras.WithLogger(c.logger))
		}
		c.oci = oras.New(orasOpts...)
	}
	return c
}
