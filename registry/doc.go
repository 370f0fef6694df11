// Package registry stores file collections in OCI registries.
//
// A collection is pushed as an OCI 1.1 artifact with a single layer: the
// IUM container produced by Collection.ToIum. The layer media type is the
// container mimetype, so any OCI tool can pull the layer back as a file
// that FromIum accepts.
//
//	client := registry.New(registry.WithDockerConfig())
//	desc, err := client.Push(ctx, "ghcr.io/lab/spectra:v1", collection)
//	...
//	pulled, err := client.Pull(ctx, "ghcr.io/lab/spectra:v1")
//
// Pulled layers are verified against their digest and may be cached in any
// cache.Cache, keyed by that digest.
package registry
