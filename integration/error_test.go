//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cheminfo/filelist/registry"
)

func TestPullNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	addr := getRegistry(t)

	client := newTestClient(t)
	_, err := client.Pull(ctx, testRef(t, addr, "missing"))
	require.ErrorIs(t, err, registry.ErrNotFound)

	_, err = client.Fetch(ctx, testRef(t, addr, "missing"))
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestTagUnknownDigest(t *testing.T) {
	t.Parallel()
	addr := getRegistry(t)

	err := newTestClient(t).Tag(context.Background(), testRef(t, addr, "v1"),
		"sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestPullSizeLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	addr := getRegistry(t)

	c, _ := spectraCollection(t)
	client := newTestClient(t)
	ref := testRef(t, addr, "v1")
	_, err := client.Push(ctx, ref, c)
	require.NoError(t, err)

	_, err = client.Pull(ctx, ref, registry.WithMaxLayerSize(64))
	require.ErrorIs(t, err, registry.ErrLayerTooLarge)
}
