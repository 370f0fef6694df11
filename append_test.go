package filelist_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/internal/testutil"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "root")
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestAppendPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := writeTree(t, map[string]string{
		"a.txt":     "a",
		"sub/b.txt": "b",
		".git/HEAD": "ref",
	})

	c := filelist.New()
	require.NoError(t, c.AppendPath(ctx, root))
	assert.Equal(t, []string{"root/a.txt", "root/sub/b.txt"}, paths(c))
	assert.Equal(t, "b", text(t, c, "root/sub/b.txt"))

	f, _ := c.File("root/a.txt")
	info, err := os.Stat(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime().UnixMilli(), f.LastModified)
	assert.EqualValues(t, 1, f.Size)

	flat := filelist.New()
	require.NoError(t, flat.AppendPath(ctx, root, filelist.WithKeepBasename(false)))
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, paths(flat))

	single := filelist.New()
	require.NoError(t, single.AppendPath(ctx, filepath.Join(root, "sub", "b.txt")))
	assert.Equal(t, []string{"b.txt"}, paths(single))

	require.Error(t, filelist.New().AppendPath(ctx, filepath.Join(root, "missing")))
}

func TestFromPathExpandsArchives(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := writeTree(t, nil)
	require.NoError(t, os.MkdirAll(root, 0o755))
	archive := testutil.Zip(t, testutil.ZipEntry{Name: "x.txt", Data: []byte("x")})
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.zip"), archive, 0o644))

	c, err := filelist.FromPath(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"root/data.zip/x.txt"}, paths(c))
	assert.Equal(t, "x", text(t, c, "root/data.zip/x.txt"))
}

func TestAppendFileList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	modified := time.UnixMilli(1_700_000_000_000)
	entry := func(path, content string) filelist.FileEntry {
		return filelist.FileEntry{
			Path:         path,
			Size:         int64(len(content)),
			LastModified: modified,
			Open: func(context.Context) (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(content)), nil
			},
		}
	}

	c := filelist.New()
	require.NoError(t, c.AppendFileList(ctx, []filelist.FileEntry{
		entry("upload/b.txt", "b"),
		entry("upload/a.txt", "a"),
		entry("upload/.DS_Store", "x"),
	}))
	c.Alphabetical()
	assert.Equal(t, []string{"upload/a.txt", "upload/b.txt"}, paths(c))
	f, _ := c.File("upload/a.txt")
	assert.Equal(t, modified.UnixMilli(), f.LastModified)

	err := c.AppendFileList(ctx, []filelist.FileEntry{entry("upload/a.txt", "again")})
	require.ErrorIs(t, err, filelist.ErrDuplicatePath)
}

func TestAppendContent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		content filelist.Content
		kind    filelist.ContentKind
		want    string
	}{
		{name: "bytes", content: filelist.BytesContent([]byte("raw")), kind: filelist.ContentBytes, want: "raw"},
		{name: "text", content: filelist.TextContent("text"), kind: filelist.ContentText, want: "text"},
		{name: "stream", content: filelist.StreamContent(strings.NewReader("stream")), kind: filelist.ContentStream, want: "stream"},
		{name: "base64", content: filelist.Base64Content("aGVsbG8="), kind: filelist.ContentBase64, want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.kind, tt.content.Kind())
			assert.Equal(t, tt.name, tt.kind.String())

			c := filelist.New()
			when := time.UnixMilli(1234)
			require.NoError(t, c.AppendContent(ctx, "f.bin", tt.content, filelist.WithLastModified(when)))
			assert.Equal(t, tt.want, text(t, c, "f.bin"))
			f, _ := c.File("f.bin")
			assert.EqualValues(t, 1234, f.LastModified)
			assert.EqualValues(t, len(tt.want), f.Size)
		})
	}

	err := filelist.New().AppendContent(ctx, "bad", filelist.Base64Content("!!"))
	require.ErrorIs(t, err, filelist.ErrUnsupportedContent)
	err = filelist.New().AppendContent(ctx, "nil", filelist.StreamContent(nil))
	require.ErrorIs(t, err, filelist.ErrUnsupportedContent)
}

func TestAppendExtra(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "sidecar.json", "{}", filelist.WithExtra()))
	require.Len(t, c.Sources(), 1)
	assert.True(t, c.Sources()[0].Extra)

	data, err := c.ToIum(ctx)
	require.NoError(t, err)
	_, ok := zipEntries(t, data)["sidecar.json"]
	assert.True(t, ok)
}
