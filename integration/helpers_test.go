//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/registry"
)

var (
	registryOnce sync.Once
	registryAddr string
	registryErr  error
)

// getRegistry returns the address of the shared registry container,
// starting it on first use.
func getRegistry(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	registryOnce.Do(func() {
		registryAddr, registryErr = startRegistryContainer(context.Background())
	})
	if registryErr != nil {
		tb.Fatalf("start registry container: %v", registryErr)
	}
	return registryAddr
}

func startRegistryContainer(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "registry:2",
			ExposedPorts: []string{"5000/tcp"},
			WaitingFor: wait.ForHTTP("/v2/").WithPort("5000/tcp").WithStatusCodeMatcher(func(status int) bool {
				return status >= 200 && status < 300
			}),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start registry container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve registry host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5000/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve registry port: %w", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), nil
}

func newTestClient(tb testing.TB, opts ...registry.Option) *registry.Client {
	tb.Helper()
	return registry.New(append([]registry.Option{registry.WithPlainHTTP(true), registry.WithAnonymous()}, opts...)...)
}

// testRef builds a reference unique to the running test.
func testRef(tb testing.TB, addr, tag string) string {
	tb.Helper()
	name := strings.ToLower(strings.NewReplacer("/", "-", "_", "-").Replace(tb.Name()))
	return fmt.Sprintf("%s/test/%s:%s", addr, name, tag)
}

func writeFiles(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(tb, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(tb, os.WriteFile(full, content, 0o644))
	}
}

// repeated returns size bytes of compressible text.
func repeated(size int) []byte {
	return []byte(strings.Repeat("##XYDATA=(X++(Y..Y))\n", size/21+1)[:size])
}

// spectraFiles is a measurement directory as an instrument would write it.
var spectraFiles = map[string][]byte{
	"ethanol/1h.jdx":          []byte("##TITLE=ethanol 1H\n##JCAMP-DX=5.01\n"),
	"ethanol/13c.jdx":         []byte("##TITLE=ethanol 13C\n##JCAMP-DX=5.01\n"),
	"ethanol/fid/acqus":       []byte("##$SFO1=400.13"),
	"benzene/ir.jdx":          repeated(64 * 1024),
	"benzene/meta/notes.json": []byte(`{"solvent":"CDCl3"}`),
	".DS_Store":               []byte("junk"),
}

// requireContents checks that c holds exactly want.
func requireContents(tb testing.TB, c *filelist.Collection, want map[string][]byte) {
	tb.Helper()
	got := make(map[string][]byte, c.Len())
	for f := range c.All() {
		data, err := f.Bytes(context.Background())
		require.NoError(tb, err, "read %s", f.RelativePath)
		got[f.RelativePath] = data
	}
	require.Equal(tb, want, got)
}
