package registry

import (
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	orasregistry "oras.land/oras-go/v2/registry"
)

type reference struct {
	registry   string
	repository string
	reference  string // tag or digest
}

func parseReference(ref string) (reference, error) {
	r, err := orasregistry.ParseReference(ref)
	if err != nil {
		return reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return reference{registry: r.Registry, repository: r.Repository, reference: r.Reference}, nil
}

// tag returns the tag of ref, failing when ref names a digest or nothing.
func (r reference) tag() (string, error) {
	if r.reference == "" || isDigest(r.reference) {
		return "", fmt.Errorf("%w: reference must include a tag", ErrInvalidReference)
	}
	return r.reference, nil
}

func isDigest(ref string) bool {
	return strings.Contains(ref, ":")
}

func descriptorFromDigest(dgst string) (ocispec.Descriptor, error) {
	d, err := digest.Parse(dgst)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("%w: invalid digest %q", ErrInvalidReference, dgst)
	}
	return ocispec.Descriptor{MediaType: ocispec.MediaTypeImageManifest, Digest: d}, nil
}
