package registry

import (
	"context"
	"fmt"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cheminfo/filelist"
)

// Pull downloads the collection at ref and decodes it. The container
// mimetype must equal the layer media type.
func (c *Client) Pull(ctx context.Context, ref string, opts ...PullOption) (*filelist.Collection, error) {
	cfg := newPullConfig(opts)

	data, manifest, err := c.pullIum(ctx, ref, &cfg)
	if err != nil {
		return nil, err
	}

	collOpts := c.collectionOpts
	if c.logger != nil {
		collOpts = append([]filelist.Option{filelist.WithLogger(c.logger)}, collOpts...)
	}
	fromOpts := append([]filelist.FromIumOption{
		filelist.WithMimetypeValidation(manifest.Layer().MediaType),
		filelist.WithCollectionOptions(collOpts...),
	}, cfg.fromOpts...)

	coll, err := filelist.FromIum(ctx, data, fromOpts...)
	if err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return coll, nil
}

// PullIum downloads the container at ref without decoding it.
func (c *Client) PullIum(ctx context.Context, ref string, opts ...PullOption) ([]byte, *CollectionManifest, error) {
	cfg := newPullConfig(opts)
	return c.pullIum(ctx, ref, &cfg)
}

func (c *Client) pullIum(ctx context.Context, ref string, cfg *pullConfig) ([]byte, *CollectionManifest, error) {
	c.log().Info("pulling collection", "ref", ref)

	manifest, err := c.Fetch(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	data, err := c.fetchLayer(ctx, ref, manifest.Layer(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return data, manifest, nil
}

func (c *Client) fetchLayer(ctx context.Context, ref string, desc ocispec.Descriptor, cfg *pullConfig) ([]byte, error) {
	if cfg.maxSize > 0 && desc.Size > cfg.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrLayerTooLarge, desc.Size, cfg.maxSize)
	}

	if data, ok := c.cachedLayer(desc, cfg); ok {
		return data, nil
	}

	rc, err := c.oci.FetchBlob(ctx, ref, &desc)
	if err != nil {
		return nil, fmt.Errorf("fetch layer: %w", mapOCIError(err))
	}
	defer rc.Close()

	data, err := readLayer(rc, cfg.maxSize)
	if err != nil {
		return nil, err
	}
	if computed := desc.Digest.Algorithm().FromBytes(data); computed != desc.Digest {
		c.log().Warn("layer digest verification failed", "expected", desc.Digest.String(), "computed", computed.String())
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, desc.Digest, computed)
	}

	if c.layerCache != nil && !cfg.skipCache {
		if err := c.layerCache.Put(desc.Digest, data); err != nil {
			return nil, fmt.Errorf("cache layer: %w", err)
		}
	}
	return data, nil
}

// cachedLayer returns a cached layer that still matches desc.
func (c *Client) cachedLayer(desc ocispec.Descriptor, cfg *pullConfig) ([]byte, bool) {
	if cfg.skipCache || c.layerCache == nil {
		return nil, false
	}
	short := desc.Digest.Encoded()[:min(12, len(desc.Digest.Encoded()))]

	data, ok := c.layerCache.Get(desc.Digest)
	if !ok {
		c.log().Debug("layer cache miss", "digest", short)
		return nil, false
	}
	if int64(len(data)) != desc.Size || desc.Digest.Algorithm().FromBytes(data) != desc.Digest {
		c.log().Warn("ignoring corrupted layer cache entry", "digest", short)
		return nil, false
	}
	c.log().Debug("layer cache hit", "digest", short, "size", len(data))
	return data, true
}

// readLayer reads at most maxSize bytes when maxSize is positive.
func readLayer(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read layer: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrLayerTooLarge, maxSize)
	}
	return data, nil
}
