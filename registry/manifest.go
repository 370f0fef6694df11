package registry

import (
	"fmt"
	"strconv"
	"time"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// CollectionManifest is the OCI manifest of a pushed collection.
type CollectionManifest struct {
	raw     ocispec.Manifest
	digest  string
	layer   ocispec.Descriptor
	created time.Time
}

// Digest returns the manifest digest.
func (m *CollectionManifest) Digest() string {
	return m.digest
}

// Layer returns the descriptor of the IUM container layer.
func (m *CollectionManifest) Layer() ocispec.Descriptor {
	return m.layer
}

// Title returns the file name recorded on the layer, if any.
func (m *CollectionManifest) Title() string {
	return m.layer.Annotations[ocispec.AnnotationTitle]
}

// Annotations returns the manifest annotations.
func (m *CollectionManifest) Annotations() map[string]string {
	return m.raw.Annotations
}

// Created returns the creation time, or the zero time when the annotation
// is missing or malformed.
func (m *CollectionManifest) Created() time.Time {
	return m.created
}

// Counts returns the number of sources and files recorded at push time.
// ok is false when the manifest carries no counts.
func (m *CollectionManifest) Counts() (sources, files int, ok bool) {
	s, errS := strconv.Atoi(m.raw.Annotations[AnnotationSources])
	f, errF := strconv.Atoi(m.raw.Annotations[AnnotationFiles])
	if errS != nil || errF != nil {
		return 0, 0, false
	}
	return s, f, true
}

// Raw returns the underlying OCI manifest.
func (m *CollectionManifest) Raw() ocispec.Manifest {
	return m.raw
}

func parseCollectionManifest(manifest *ocispec.Manifest, digest string) (*CollectionManifest, error) {
	if manifest.MediaType != ocispec.MediaTypeImageManifest {
		return nil, fmt.Errorf("%w: unexpected manifest media type %q", ErrInvalidManifest, manifest.MediaType)
	}
	if manifest.ArtifactType != ArtifactType {
		return nil, fmt.Errorf("%w: unexpected artifact type %q", ErrInvalidManifest, manifest.ArtifactType)
	}
	if len(manifest.Layers) != 1 {
		return nil, fmt.Errorf("%w: expected 1 layer, got %d", ErrInvalidManifest, len(manifest.Layers))
	}
	layer := manifest.Layers[0]
	if layer.MediaType == "" {
		return nil, fmt.Errorf("%w: layer has no media type", ErrInvalidManifest)
	}
	if err := layer.Digest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: layer digest: %v", ErrInvalidManifest, err)
	}

	var created time.Time
	if ts, ok := manifest.Annotations[ocispec.AnnotationCreated]; ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			created = t
		}
	}

	return &CollectionManifest{
		raw:     *manifest,
		digest:  digest,
		layer:   layer,
		created: created,
	}, nil
}
