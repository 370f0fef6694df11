// Package oras is the low-level OCI layer used by the registry package.
//
// Client wraps oras-go repositories behind a small interface: push and
// fetch blobs and manifests, resolve and tag references, and hand out
// authenticated HTTP clients for direct blob access. Credentials come from
// a credentials.Store (static, Docker config, or none).
package oras
