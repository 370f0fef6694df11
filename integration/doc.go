//go:build integration

// Package integration holds end-to-end tests for filelist.
//
// The registry tests start a registry:2 container with testcontainers and
// need Docker. Set SKIP_DOCKER_TESTS=1 to skip them.
// Run with: go test -tags=integration ./integration/...
package integration
