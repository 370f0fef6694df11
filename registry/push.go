package registry

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cheminfo/filelist"
)

// Push encodes coll as an IUM container and pushes it to ref, which must
// include a tag. It returns the descriptor of the pushed manifest.
func (c *Client) Push(ctx context.Context, ref string, coll *filelist.Collection, opts ...PushOption) (ocispec.Descriptor, error) {
	cfg := newPushConfig(opts)

	iumOpts := append([]filelist.IumOption{filelist.WithMimetype(cfg.mediaType)}, cfg.iumOpts...)
	data, err := coll.ToIum(ctx, iumOpts...)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("encode collection: %w", err)
	}

	counts := map[string]string{
		AnnotationSources: strconv.Itoa(len(coll.Sources())),
		AnnotationFiles:   strconv.Itoa(coll.Len()),
	}
	for k, v := range counts {
		if _, ok := cfg.annotations[k]; !ok {
			cfg.annotations[k] = v
		}
	}
	return c.push(ctx, ref, data, &cfg)
}

// PushIum pushes an encoded IUM container as is. Its mimetype must match
// the layer media type.
func (c *Client) PushIum(ctx context.Context, ref string, data []byte, opts ...PushOption) (ocispec.Descriptor, error) {
	cfg := newPushConfig(opts)
	if !filelist.IsIum(data, cfg.mediaType) {
		return ocispec.Descriptor{}, fmt.Errorf("%w: not a container of type %s", filelist.ErrInvalidIum, cfg.mediaType)
	}
	return c.push(ctx, ref, data, &cfg)
}

func (c *Client) push(ctx context.Context, ref string, data []byte, cfg *pushConfig) (ocispec.Descriptor, error) {
	parsed, err := parseReference(ref)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	tag, err := parsed.tag()
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	c.log().Info("pushing collection", "ref", ref, "size", len(data))

	configDesc, err := c.pushEmptyConfig(ctx, ref)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push config: %w", err)
	}

	layerDesc := ocispec.Descriptor{
		MediaType: cfg.mediaType,
		Digest:    digest.FromBytes(data),
		Size:      int64(len(data)),
	}
	if cfg.title != "" {
		layerDesc.Annotations = map[string]string{ocispec.AnnotationTitle: cfg.title}
	}
	if err := c.oci.PushBlob(ctx, ref, &layerDesc, bytes.NewReader(data)); err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push layer: %w", mapOCIError(err))
	}

	manifest := buildManifest(&configDesc, &layerDesc, cfg.annotations)
	manifestDesc, err := c.oci.PushManifest(ctx, ref, tag, &manifest)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push manifest: %w", mapOCIError(err))
	}

	for _, extra := range cfg.tags {
		if err := c.oci.Tag(ctx, ref, &manifestDesc, extra); err != nil {
			return ocispec.Descriptor{}, fmt.Errorf("tag %q: %w", extra, mapOCIError(err))
		}
	}

	c.log().Debug("pushed collection", "ref", ref, "digest", manifestDesc.Digest.String())
	return manifestDesc, nil
}

func (c *Client) pushEmptyConfig(ctx context.Context, ref string) (ocispec.Descriptor, error) {
	desc := ocispec.DescriptorEmptyJSON
	if err := c.oci.PushBlob(ctx, ref, &desc, bytes.NewReader(ocispec.DescriptorEmptyJSON.Data)); err != nil {
		return ocispec.Descriptor{}, mapOCIError(err)
	}
	desc.Data = nil
	return desc, nil
}

func buildManifest(configDesc, layerDesc *ocispec.Descriptor, custom map[string]string) ocispec.Manifest {
	annotations := make(map[string]string, len(custom)+1)
	for k, v := range custom {
		annotations[k] = v
	}
	if _, ok := annotations[ocispec.AnnotationCreated]; !ok {
		annotations[ocispec.AnnotationCreated] = time.Now().UTC().Format(time.RFC3339)
	}

	return ocispec.Manifest{
		Versioned:    specs.Versioned{SchemaVersion: 2},
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactType,
		Config:       *configDesc,
		Layers:       []ocispec.Descriptor{*layerDesc},
		Annotations:  annotations,
	}
}
