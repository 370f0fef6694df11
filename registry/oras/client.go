package oras

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/errcode"
	"oras.land/oras-go/v2/registry/remote/retry"
)

const (
	defaultUserAgent = "filelist/1.0"

	// maxManifestSize bounds manifests fetched without a known size.
	maxManifestSize = 4 << 20
)

// Client performs OCI registry operations through oras-go.
//
// A single auth.Client is shared by every repository handle so that tokens
// obtained for one request are reused by the next.
type Client struct {
	plainHTTP       bool
	userAgent       string
	anonymous       bool
	credStore       credentials.Store
	authClient      *auth.Client
	authHeaderCache *authHeaderCache
	logger          *slog.Logger
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent:       defaultUserAgent,
		authHeaderCache: newAuthHeaderCache(defaultAuthHeaderCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.authClient = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: func(ctx context.Context, hostport string) (auth.Credential, error) {
			if c.anonymous || c.credStore == nil {
				return auth.EmptyCredential, nil
			}
			return c.credStore.Get(ctx, hostport)
		},
		Header: http.Header{"User-Agent": []string{c.userAgent}},
	}
	return c
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

func (c *Client) repository(ref string) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidReference, ref, err)
	}
	repo.PlainHTTP = c.plainHTTP
	repo.Client = c.authClient
	return repo, nil
}

func parseRef(ref string) (registry.Reference, error) {
	r, err := registry.ParseReference(ref)
	if err != nil {
		return registry.Reference{}, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return r, nil
}

// PushBlob uploads exactly desc.Size bytes read from r.
func (c *Client) PushBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor, r io.Reader) error {
	if err := validateDescriptor(desc); err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("%w: content reader is nil", ErrInvalidDescriptor)
	}
	repo, err := c.repository(repoRef)
	if err != nil {
		return err
	}

	c.log().Debug("pushing blob", "ref", repoRef, "digest", desc.Digest.String(), "size", desc.Size)
	return mapError(repo.Push(ctx, *desc, r))
}

// FetchBlob opens the blob described by desc. The caller closes the reader.
func (c *Client) FetchBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor) (io.ReadCloser, error) {
	if err := validateDescriptor(desc); err != nil {
		return nil, err
	}
	repo, err := c.repository(repoRef)
	if err != nil {
		return nil, err
	}

	c.log().Debug("fetching blob", "ref", repoRef, "digest", desc.Digest.String())
	rc, err := repo.Fetch(ctx, *desc)
	if err != nil {
		return nil, mapError(err)
	}
	return rc, nil
}

// PushManifest uploads an image manifest and tags it.
func (c *Client) PushManifest(ctx context.Context, repoRef, tag string, manifest *ocispec.Manifest) (ocispec.Descriptor, error) {
	if manifest == nil {
		return ocispec.Descriptor{}, fmt.Errorf("%w: manifest is nil", ErrManifestInvalid)
	}
	repo, err := c.repository(repoRef)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	raw, err := json.Marshal(manifest)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("marshal manifest: %w", err)
	}
	desc := ocispec.Descriptor{
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: manifest.ArtifactType,
		Digest:       digest.FromBytes(raw),
		Size:         int64(len(raw)),
	}

	c.log().Debug("pushing manifest", "ref", repoRef, "tag", tag, "digest", desc.Digest.String())
	if err := repo.PushReference(ctx, desc, bytes.NewReader(raw), tag); err != nil {
		return ocispec.Descriptor{}, mapError(err)
	}
	return desc, nil
}

// FetchManifest fetches and decodes the image manifest with the digest of
// expected. The raw bytes are returned alongside, verified against it.
func (c *Client) FetchManifest(ctx context.Context, repoRef string, expected *ocispec.Descriptor) (ocispec.Manifest, []byte, error) {
	if err := validateDescriptor(expected); err != nil {
		return ocispec.Manifest{}, nil, err
	}
	if expected.MediaType != "" && expected.MediaType != ocispec.MediaTypeImageManifest {
		return ocispec.Manifest{}, nil, fmt.Errorf("%w: unsupported media type %s", ErrManifestInvalid, expected.MediaType)
	}
	repo, err := c.repository(repoRef)
	if err != nil {
		return ocispec.Manifest{}, nil, err
	}

	desc, rc, err := repo.FetchReference(ctx, expected.Digest.String())
	if err != nil {
		return ocispec.Manifest{}, nil, mapError(err)
	}
	defer rc.Close()

	if desc.MediaType != "" && desc.MediaType != ocispec.MediaTypeImageManifest {
		return ocispec.Manifest{}, nil, fmt.Errorf("%w: unsupported media type %s", ErrManifestInvalid, desc.MediaType)
	}

	limit := int64(maxManifestSize)
	if expected.Size > 0 {
		limit = expected.Size
	}
	raw, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return ocispec.Manifest{}, nil, fmt.Errorf("read manifest: %w", err)
	}
	if computed := expected.Digest.Algorithm().FromBytes(raw); computed != expected.Digest {
		return ocispec.Manifest{}, nil, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, expected.Digest, computed)
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return ocispec.Manifest{}, nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	return manifest, raw, nil
}

// Resolve resolves a tag or digest to a descriptor.
func (c *Client) Resolve(ctx context.Context, repoRef, ref string) (ocispec.Descriptor, error) {
	repo, err := c.repository(repoRef)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	desc, err := repo.Resolve(ctx, ref)
	if err != nil {
		return ocispec.Descriptor{}, mapError(err)
	}
	return desc, nil
}

// Tag points tag at desc.
func (c *Client) Tag(ctx context.Context, repoRef string, desc *ocispec.Descriptor, tag string) error {
	if err := validateDescriptor(desc); err != nil {
		return err
	}
	repo, err := c.repository(repoRef)
	if err != nil {
		return err
	}
	return mapError(repo.Tag(ctx, *desc, tag))
}

// BlobURL returns the registry URL of a blob, for range requests.
func (c *Client) BlobURL(repoRef, dgst string) (string, error) {
	ref, err := parseRef(repoRef)
	if err != nil {
		return "", err
	}
	scheme := "https"
	if c.plainHTTP {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/v2/%s/blobs/%s", scheme, ref.Host(), ref.Repository, dgst), nil
}

// AuthHeaders returns the headers for direct blob access: the User-Agent
// plus an Authorization header built from the stored credential. No token
// exchange happens here; use AuthClient for registries that need one.
func (c *Client) AuthHeaders(ctx context.Context, repoRef string) (http.Header, error) {
	ref, err := parseRef(repoRef)
	if err != nil {
		return nil, err
	}
	host := ref.Host()

	headers := make(http.Header)
	headers.Set("User-Agent", c.userAgent)
	if c.anonymous || c.credStore == nil {
		return headers, nil
	}

	if c.authHeaderCache != nil {
		if value, ok := c.authHeaderCache.get(host); ok {
			headers.Set("Authorization", value)
			return headers, nil
		}
	}

	cred, err := c.credStore.Get(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("get credentials for %s: %w", host, err)
	}

	var value string
	switch {
	case cred.AccessToken != "":
		value = "Bearer " + cred.AccessToken
	case cred.Username != "":
		value = basicAuth(cred.Username, cred.Password)
	default:
		return headers, nil
	}

	headers.Set("Authorization", value)
	if c.authHeaderCache != nil {
		c.authHeaderCache.set(host, value)
	}
	return headers, nil
}

// InvalidateAuthHeaders forgets the cached Authorization header of the
// repository host, typically after a 401.
func (c *Client) InvalidateAuthHeaders(repoRef string) error {
	if c.authHeaderCache == nil {
		return nil
	}
	ref, err := parseRef(repoRef)
	if err != nil {
		return err
	}
	c.authHeaderCache.invalidate(ref.Host())
	return nil
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func validateDescriptor(desc *ocispec.Descriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: descriptor is nil", ErrInvalidDescriptor)
	}
	if desc.Size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidDescriptor, desc.Size)
	}
	if desc.Digest == "" {
		return fmt.Errorf("%w: empty digest", ErrInvalidDescriptor)
	}
	if err := desc.Digest.Validate(); err != nil {
		return fmt.Errorf("%w: invalid digest %q: %v", ErrInvalidDescriptor, desc.Digest, err)
	}
	return nil
}

// mapError translates oras errors into this package's sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errdef.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var resp *errcode.ErrorResponse
	if errors.As(err, &resp) {
		for _, e := range resp.Errors {
			switch e.Code {
			case errcode.ErrorCodeManifestUnknown, errcode.ErrorCodeBlobUnknown,
				errcode.ErrorCodeNameUnknown, errcode.ErrorCodeManifestBlobUnknown:
				return fmt.Errorf("%w: %v", ErrNotFound, err)
			case errcode.ErrorCodeManifestInvalid:
				return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
			case errcode.ErrorCodeDigestInvalid:
				return fmt.Errorf("%w: %v", ErrDigestMismatch, err)
			case errcode.ErrorCodeSizeInvalid:
				return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			case errcode.ErrorCodeNameInvalid:
				return fmt.Errorf("%w: %v", ErrInvalidReference, err)
			}
		}
		switch resp.StatusCode {
		case http.StatusRequestEntityTooLarge:
			return fmt.Errorf("%w: %v", ErrTooLarge, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrForbidden, err)
		}
	}
	return err
}
