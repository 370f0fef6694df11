package registry

import (
	"context"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Tag points the tag of ref at the manifest with the given digest.
func (c *Client) Tag(ctx context.Context, ref, digest string) error {
	parsed, err := parseReference(ref)
	if err != nil {
		return err
	}
	tag, err := parsed.tag()
	if err != nil {
		return err
	}

	// Tagging needs the media type, which only the registry knows.
	desc, err := c.oci.Resolve(ctx, ref, digest)
	if err != nil {
		return mapOCIError(err)
	}
	return mapOCIError(c.oci.Tag(ctx, ref, &desc, tag))
}

// Resolve returns the manifest descriptor ref points to.
func (c *Client) Resolve(ctx context.Context, ref string) (ocispec.Descriptor, error) {
	parsed, err := parseReference(ref)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	if parsed.reference == "" {
		return ocispec.Descriptor{}, ErrInvalidReference
	}
	desc, err := c.oci.Resolve(ctx, ref, parsed.reference)
	if err != nil {
		return ocispec.Descriptor{}, mapOCIError(err)
	}
	return desc, nil
}
