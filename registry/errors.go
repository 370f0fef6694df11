package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrNotFound is returned when nothing exists at the reference.
	ErrNotFound = errors.New("registry: not found")

	// ErrInvalidReference is returned when a reference string is malformed
	// or lacks a required tag.
	ErrInvalidReference = errors.New("registry: invalid reference")

	// ErrInvalidManifest is returned when a manifest does not describe an
	// IUM collection.
	ErrInvalidManifest = errors.New("registry: invalid collection manifest")

	// ErrDigestMismatch is returned when a layer does not match its digest.
	ErrDigestMismatch = errors.New("registry: digest mismatch")

	// ErrLayerTooLarge is returned when a layer exceeds the pull size limit.
	ErrLayerTooLarge = errors.New("registry: layer too large")

	// ErrUnauthorized is returned when the registry rejects the credentials.
	ErrUnauthorized = errors.New("registry: unauthorized")
)
