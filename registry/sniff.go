package registry

import (
	"context"
	"fmt"

	"github.com/cheminfo/filelist"
	filehttp "github.com/cheminfo/filelist/http"
)

// Sniff reports whether the layer at ref is an IUM container of its
// declared media type. Only the first bytes of the layer are read, with
// HTTP range requests against the registry.
func (c *Client) Sniff(ctx context.Context, ref string) (bool, error) {
	manifest, err := c.Fetch(ctx, ref)
	if err != nil {
		return false, err
	}
	layer := manifest.Layer()

	url, err := c.oci.BlobURL(ref, layer.Digest.String())
	if err != nil {
		return false, fmt.Errorf("build layer URL: %w", mapOCIError(err))
	}

	var opts []filehttp.Option
	if provider, ok := c.oci.(authClientProvider); ok {
		client, err := provider.AuthClient(ref)
		if err != nil {
			return false, fmt.Errorf("get auth client: %w", mapOCIError(err))
		}
		opts = append(opts, filehttp.WithClient(client))
	} else {
		headers, err := c.oci.AuthHeaders(ctx, ref)
		if err != nil {
			return false, fmt.Errorf("get auth headers: %w", mapOCIError(err))
		}
		opts = append(opts, filehttp.WithHeaders(headers))
	}

	rr, err := filehttp.NewRangeReader(ctx, url, opts...)
	if err != nil {
		return false, fmt.Errorf("open layer: %w", err)
	}
	c.log().Debug("sniffing layer", "url", url, "size", rr.Size())
	return filelist.IsIumAt(rr, rr.Size(), layer.MediaType)
}
