package registry

import (
	"context"
	"fmt"
)

// Fetch returns the manifest of the collection at ref without downloading
// the container.
func (c *Client) Fetch(ctx context.Context, ref string) (*CollectionManifest, error) {
	parsed, err := parseReference(ref)
	if err != nil {
		return nil, err
	}
	if parsed.reference == "" {
		return nil, fmt.Errorf("%w: reference must include a tag or digest", ErrInvalidReference)
	}

	dgst := parsed.reference
	if !isDigest(dgst) {
		c.log().Debug("resolving tag", "ref", ref)
		desc, err := c.oci.Resolve(ctx, ref, parsed.reference)
		if err != nil {
			return nil, mapOCIError(err)
		}
		dgst = desc.Digest.String()
	}

	desc, err := descriptorFromDigest(dgst)
	if err != nil {
		return nil, err
	}
	raw, _, err := c.oci.FetchManifest(ctx, ref, &desc)
	if err != nil {
		return nil, mapOCIError(err)
	}
	return parseCollectionManifest(&raw, dgst)
}
