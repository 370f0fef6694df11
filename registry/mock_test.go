package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cheminfo/filelist/registry/oras"
)

var errNotImplemented = errors.New("not implemented in mock")

// mockOCIClient is an OCIClient configured through function fields.
// Unset fields return errNotImplemented.
type mockOCIClient struct {
	PushBlobFunc      func(ctx context.Context, repoRef string, desc *ocispec.Descriptor, r io.Reader) error
	FetchBlobFunc     func(ctx context.Context, repoRef string, desc *ocispec.Descriptor) (io.ReadCloser, error)
	PushManifestFunc  func(ctx context.Context, repoRef, tag string, manifest *ocispec.Manifest) (ocispec.Descriptor, error)
	FetchManifestFunc func(ctx context.Context, repoRef string, expected *ocispec.Descriptor) (ocispec.Manifest, []byte, error)
	ResolveFunc       func(ctx context.Context, repoRef, ref string) (ocispec.Descriptor, error)
	TagFunc           func(ctx context.Context, repoRef string, desc *ocispec.Descriptor, tag string) error
	BlobURLFunc       func(repoRef, digest string) (string, error)
	AuthHeadersFunc   func(ctx context.Context, repoRef string) (http.Header, error)
}

func (m *mockOCIClient) PushBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor, r io.Reader) error {
	if m.PushBlobFunc != nil {
		return m.PushBlobFunc(ctx, repoRef, desc, r)
	}
	return errNotImplemented
}

func (m *mockOCIClient) FetchBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor) (io.ReadCloser, error) {
	if m.FetchBlobFunc != nil {
		return m.FetchBlobFunc(ctx, repoRef, desc)
	}
	return nil, errNotImplemented
}

func (m *mockOCIClient) PushManifest(ctx context.Context, repoRef, tag string, manifest *ocispec.Manifest) (ocispec.Descriptor, error) {
	if m.PushManifestFunc != nil {
		return m.PushManifestFunc(ctx, repoRef, tag, manifest)
	}
	return ocispec.Descriptor{}, errNotImplemented
}

func (m *mockOCIClient) FetchManifest(ctx context.Context, repoRef string, expected *ocispec.Descriptor) (ocispec.Manifest, []byte, error) {
	if m.FetchManifestFunc != nil {
		return m.FetchManifestFunc(ctx, repoRef, expected)
	}
	return ocispec.Manifest{}, nil, errNotImplemented
}

func (m *mockOCIClient) Resolve(ctx context.Context, repoRef, ref string) (ocispec.Descriptor, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, repoRef, ref)
	}
	return ocispec.Descriptor{}, errNotImplemented
}

func (m *mockOCIClient) Tag(ctx context.Context, repoRef string, desc *ocispec.Descriptor, tag string) error {
	if m.TagFunc != nil {
		return m.TagFunc(ctx, repoRef, desc, tag)
	}
	return errNotImplemented
}

func (m *mockOCIClient) BlobURL(repoRef, digest string) (string, error) {
	if m.BlobURLFunc != nil {
		return m.BlobURLFunc(repoRef, digest)
	}
	return "", errNotImplemented
}

func (m *mockOCIClient) AuthHeaders(ctx context.Context, repoRef string) (http.Header, error) {
	if m.AuthHeadersFunc != nil {
		return m.AuthHeadersFunc(ctx, repoRef)
	}
	return nil, errNotImplemented
}

// memoryRegistry backs a mockOCIClient with in-memory blobs, manifests
// and tags. Repositories are not distinguished.
type memoryRegistry struct {
	mu          sync.Mutex
	blobs       map[digest.Digest][]byte
	manifests   map[digest.Digest]ocispec.Manifest
	tags        map[string]ocispec.Descriptor
	blobPushes  int
	blobFetches int
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{
		blobs:     make(map[digest.Digest][]byte),
		manifests: make(map[digest.Digest]ocispec.Manifest),
		tags:      make(map[string]ocispec.Descriptor),
	}
}

// client returns a mock wired to the registry. Callers may override
// individual functions afterwards.
func (r *memoryRegistry) client() *mockOCIClient {
	return &mockOCIClient{
		PushBlobFunc: func(_ context.Context, _ string, desc *ocispec.Descriptor, rd io.Reader) error {
			data, err := io.ReadAll(rd)
			if err != nil {
				return err
			}
			if digest.FromBytes(data) != desc.Digest || int64(len(data)) != desc.Size {
				return fmt.Errorf("%w: pushed content does not match descriptor", oras.ErrDigestMismatch)
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			r.blobs[desc.Digest] = data
			r.blobPushes++
			return nil
		},
		FetchBlobFunc: func(_ context.Context, _ string, desc *ocispec.Descriptor) (io.ReadCloser, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			data, ok := r.blobs[desc.Digest]
			if !ok {
				return nil, oras.ErrNotFound
			}
			r.blobFetches++
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		PushManifestFunc: func(_ context.Context, _ string, tag string, manifest *ocispec.Manifest) (ocispec.Descriptor, error) {
			raw, err := json.Marshal(manifest)
			if err != nil {
				return ocispec.Descriptor{}, err
			}
			desc := ocispec.Descriptor{
				MediaType: ocispec.MediaTypeImageManifest,
				Digest:    digest.FromBytes(raw),
				Size:      int64(len(raw)),
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			r.manifests[desc.Digest] = *manifest
			r.tags[tag] = desc
			return desc, nil
		},
		FetchManifestFunc: func(_ context.Context, _ string, expected *ocispec.Descriptor) (ocispec.Manifest, []byte, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			m, ok := r.manifests[expected.Digest]
			if !ok {
				return ocispec.Manifest{}, nil, oras.ErrNotFound
			}
			raw, err := json.Marshal(m)
			return m, raw, err
		},
		ResolveFunc: func(_ context.Context, _ string, ref string) (ocispec.Descriptor, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if desc, ok := r.tags[ref]; ok {
				return desc, nil
			}
			if d, err := digest.Parse(ref); err == nil {
				if _, ok := r.manifests[d]; ok {
					return ocispec.Descriptor{MediaType: ocispec.MediaTypeImageManifest, Digest: d}, nil
				}
			}
			return ocispec.Descriptor{}, oras.ErrNotFound
		},
		TagFunc: func(_ context.Context, _ string, desc *ocispec.Descriptor, tag string) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			if _, ok := r.manifests[desc.Digest]; !ok {
				return oras.ErrNotFound
			}
			r.tags[tag] = *desc
			return nil
		},
	}
}

func (r *memoryRegistry) manifest(tag string) ocispec.Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manifests[r.tags[tag].Digest]
}

func (r *memoryRegistry) fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blobFetches
}
