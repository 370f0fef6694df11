package oras

import (
	"net/http"

	"oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote/auth"
)

// scopedTransport adds the repository pull scope to every request so the
// shared auth client can exchange tokens for it.
type scopedTransport struct {
	client *auth.Client
	ref    registry.Reference
}

func (t *scopedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := auth.AppendRepositoryScope(req.Context(), t.ref, auth.ActionPull)
	return t.client.Do(req.Clone(ctx))
}

// AuthClient returns an HTTP client authorized to read blobs of repoRef,
// including registries that require a token exchange.
func (c *Client) AuthClient(repoRef string) (*http.Client, error) {
	ref, err := parseRef(repoRef)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: &scopedTransport{client: c.authClient, ref: ref}}, nil
}
