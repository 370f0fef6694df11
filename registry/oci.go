package registry

import (
	"context"
	"io"
	"net/http"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// OCIClient is the low-level registry transport. The oras subpackage
// provides the default implementation.
type OCIClient interface {
	// PushBlob uploads a blob whose digest and size are already known.
	PushBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor, r io.Reader) error

	// FetchBlob opens a blob. The caller closes the reader.
	FetchBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor) (io.ReadCloser, error)

	// PushManifest uploads a manifest under tag.
	PushManifest(ctx context.Context, repoRef, tag string, manifest *ocispec.Manifest) (ocispec.Descriptor, error)

	// FetchManifest fetches a manifest by descriptor and returns its raw bytes too.
	FetchManifest(ctx context.Context, repoRef string, expected *ocispec.Descriptor) (ocispec.Manifest, []byte, error)

	// Resolve resolves a tag or digest to a descriptor.
	Resolve(ctx context.Context, repoRef, ref string) (ocispec.Descriptor, error)

	// Tag points tag at desc.
	Tag(ctx context.Context, repoRef string, desc *ocispec.Descriptor, tag string) error

	// BlobURL returns the URL of a blob for range requests.
	BlobURL(repoRef, digest string) (string, error)

	// AuthHeaders returns the headers authorizing direct blob access.
	AuthHeaders(ctx context.Context, repoRef string) (http.Header, error)
}

// authClientProvider is implemented by transports that can hand out an
// HTTP client performing the registry token exchange.
type authClientProvider interface {
	AuthClient(repoRef string) (*http.Client, error)
}
