package oras

import "errors"

// Transport errors. The registry package translates them to its own
// sentinels; callers of this package may match them directly.
var (
	// ErrNotFound: the repository, tag, manifest or blob is unknown to the
	// registry.
	ErrNotFound = errors.New("oci: not found")

	ErrUnauthorized = errors.New("oci: unauthorized")
	ErrForbidden    = errors.New("oci: forbidden")

	// ErrInvalidReference is returned for a repository reference that does
	// not parse, or a registry rejecting the repository name.
	ErrInvalidReference = errors.New("oci: invalid reference")

	// ErrInvalidDescriptor is returned before any request when a collection
	// layer or manifest descriptor is nil, sized below zero or badly digested.
	ErrInvalidDescriptor = errors.New("oci: invalid descriptor")

	// ErrManifestInvalid is returned when a manifest cannot be decoded, has
	// an unsupported media type, or is refused by the registry.
	ErrManifestInvalid = errors.New("oci: invalid manifest")

	// ErrDigestMismatch is returned when fetched or uploaded bytes do not hash
	// to the expected digest.
	ErrDigestMismatch = errors.New("oci: digest mismatch")

	// ErrTooLarge is returned when the registry refuses a collection layer
	// because of its size.
	ErrTooLarge = errors.New("oci: content too large")
)
