package filelist_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/internal/testutil"
)

func paths(c *filelist.Collection) []string {
	var out []string
	for f := range c.All() {
		out = append(out, f.RelativePath)
	}
	return out
}

func sourcePaths(c *filelist.Collection) []string {
	var out []string
	for _, s := range c.Sources() {
		out = append(out, s.RelativePath)
	}
	return out
}

func text(t *testing.T, c *filelist.Collection, path string) string {
	t.Helper()
	f, ok := c.File(path)
	require.True(t, ok, "file %s not found", path)
	got, err := f.Text(context.Background())
	require.NoError(t, err)
	return got
}

func logBuffer() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestAppendText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "hello.txt", "Hello word"))

	require.Equal(t, []string{"hello.txt"}, paths(c))
	f, _ := c.File("hello.txt")
	assert.Equal(t, "hello.txt", f.Name)
	assert.EqualValues(t, len("Hello word"), f.Size)
	assert.Equal(t, "Hello word", text(t, c, "hello.txt"))

	sources := c.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, filelist.IumBaseURL, sources[0].BaseURL)
	assert.Equal(t, sources[0].UUID, f.SourceUUID)
	assert.NotEmpty(t, sources[0].UUID)
}

func TestAppendTextNormalizesPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "/dir/./sub/../a.txt", "a"))
	assert.Equal(t, []string{"dir/a.txt"}, paths(c))

	_, ok := c.File("./dir/a.txt")
	assert.True(t, ok)
}

func TestAppendDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "a.txt", "one"))
	require.NoError(t, c.AppendText(ctx, "b.txt", "one"), "same content under another path")

	err := c.AppendText(ctx, "a.txt", "two")
	require.ErrorIs(t, err, filelist.ErrDuplicatePath)
	assert.ErrorContains(t, err, "Duplicate relativePath: a.txt")
	assert.Equal(t, "one", text(t, c, "a.txt"))
	assert.Equal(t, 2, c.Len())
}

func TestAppendDuplicateFromArchive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "a.zip/x.txt", "plain"))
	archive := testutil.Zip(t, testutil.ZipEntry{Name: "x.txt", Data: []byte("zipped")})

	err := c.AppendBytes(ctx, "a.zip", archive)
	require.ErrorIs(t, err, filelist.ErrDuplicatePath)
	assert.ErrorContains(t, err, "a.zip/x.txt")
}

func TestDotfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name  string
		path  string
		opts  []filelist.AppendOption
		files int
	}{
		{name: "hidden file", path: ".hidden", files: 0},
		{name: "hidden directory", path: "dir/.hidden/x.txt", files: 0},
		{name: "visible", path: "dir/x.txt", files: 1},
		{
			name:  "hidden allowed",
			path:  "dir/.hidden/x.txt",
			opts:  []filelist.AppendOption{filelist.WithItemOptions(filelist.Options{Filter: &filelist.FilterOptions{IgnoreDotfiles: filelist.Bool(false)}})},
			files: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := filelist.New()
			require.NoError(t, c.AppendText(ctx, tt.path, "x", tt.opts...))
			assert.Equal(t, tt.files, c.Len())
			assert.Len(t, c.Sources(), tt.files)
		})
	}
}

func TestDotfilesInArchive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	archive := testutil.Zip(t,
		testutil.ZipEntry{Name: ".DS_Store", Data: []byte("x")},
		testutil.ZipEntry{Name: "__MACOSX/.a.txt", Data: []byte("x")},
		testutil.ZipEntry{Name: "a.txt", Data: []byte("a")},
	)
	c := filelist.New()
	require.NoError(t, c.AppendBytes(ctx, "archive.zip", archive))
	assert.Equal(t, []string{"archive.zip/a.txt"}, paths(c))

	c = filelist.New(filelist.WithOptions(filelist.Options{Filter: &filelist.FilterOptions{IgnoreDotfiles: filelist.Bool(false)}}))
	require.NoError(t, c.AppendBytes(ctx, "archive.zip", archive))
	assert.Equal(t, 3, c.Len())
}

func TestRemoveFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	archive := testutil.Zip(t,
		testutil.ZipEntry{Name: "a.txt", Data: []byte("a")},
		testutil.ZipEntry{Name: "b.txt", Data: []byte("b")},
	)
	c := filelist.New()
	require.NoError(t, c.AppendBytes(ctx, "hello.zip", archive))
	require.NoError(t, c.AppendText(ctx, "other.txt", "other"))
	require.Equal(t, []string{"hello.zip/a.txt", "hello.zip/b.txt", "other.txt"}, paths(c))

	removed, err := c.RemoveFile("hello.zip/a.txt")
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "hello.zip/a.txt", removed.RelativePath)
	assert.Equal(t, []string{"hello.zip", "other.txt"}, sourcePaths(c), "source kept while siblings remain")

	_, err = c.RemoveFile("hello.zip/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.txt"}, paths(c))
	assert.Equal(t, []string{"other.txt"}, sourcePaths(c), "orphaned source removed")

	removed, err = c.RemoveFile("missing.txt")
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "a.txt", "a"))
	require.NoError(t, c.AppendText(ctx, "b.txt", "b"))

	clone := c.Clone()
	_, err := clone.RemoveFile("a.txt")
	require.NoError(t, err)
	clone.Sources()[0].RelativePath = "renamed.txt"

	assert.Equal(t, []string{"a.txt", "b.txt"}, paths(c))
	assert.Equal(t, []string{"a.txt", "b.txt"}, sourcePaths(c))
	assert.Equal(t, "b", text(t, clone, "b.txt"))
}

func TestAlphabetical(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	for _, p := range []string{"c.txt", "a/b.txt", "b.txt"} {
		require.NoError(t, c.AppendText(ctx, p, p))
	}
	assert.Equal(t, []string{"c.txt", "a/b.txt", "b.txt"}, paths(c))
	assert.Equal(t, []string{"a/b.txt", "b.txt", "c.txt"}, paths(c.Alphabetical()))
	assert.Equal(t, []string{"a/b.txt", "b.txt", "c.txt"}, sourcePaths(c))
}

func TestConcurrentAppends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	done := make(chan error)
	for i := range 20 {
		go func() {
			done <- c.AppendText(ctx, "file"+strings.Repeat("x", i)+".txt", "data")
		}()
	}
	for range 20 {
		require.NoError(t, <-done)
	}
	assert.Equal(t, 20, c.Len())
	assert.Len(t, c.Sources(), 20)
}

func TestSourceCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name  string
		cache bool
		opens int64
	}{
		{name: "memoized", cache: true, opens: 1},
		{name: "re-read", cache: false, opens: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var opens atomic.Int64
			s := filelist.NewSource("a.txt", func(context.Context) (io.ReadCloser, error) {
				opens.Add(1)
				return io.NopCloser(strings.NewReader("content")), nil
			})

			c := filelist.New()
			require.NoError(t, c.AppendExtendedSource(ctx, s, filelist.WithItemOptions(filelist.Options{Cache: filelist.Bool(tt.cache)})))
			assert.Equal(t, "content", text(t, c, "a.txt"))
			assert.Equal(t, "content", text(t, c, "a.txt"))
			assert.Equal(t, tt.opens, opens.Load())
		})
	}
}

func TestAppendExtendedSourceStoresOptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New(filelist.WithOptions(filelist.Options{Cache: filelist.Bool(true)}))
	s, err := filelist.NewContentSource("a.txt", filelist.TextContent("a"))
	require.NoError(t, err)
	s.Options = &filelist.Options{Unzip: &filelist.UnzipOptions{Recursive: filelist.Bool(false)}}
	require.NoError(t, c.AppendExtendedSource(ctx, s))

	stored, ok := c.Source(s.UUID)
	require.True(t, ok)
	require.NotNil(t, stored.Options)
	assert.True(t, *stored.Options.Cache)
	assert.False(t, *stored.Options.Unzip.Recursive)
	assert.NotSame(t, s, stored)
}

func TestAppendExtendedSourceDuplicateUUID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	x, err := filelist.NewContentSource("x.txt", filelist.TextContent("X"))
	require.NoError(t, err)
	y, err := filelist.NewContentSource("y.txt", filelist.TextContent("Y"))
	require.NoError(t, err)
	y.UUID = x.UUID

	require.NoError(t, c.AppendExtendedSource(ctx, x))
	err = c.AppendExtendedSource(ctx, y)
	require.ErrorIs(t, err, filelist.ErrDuplicateUUID)
	assert.Equal(t, []string{"x.txt"}, paths(c))
	assert.Len(t, c.Sources(), 1)

	data, err := c.ToIum(ctx)
	require.NoError(t, err)
	decoded, err := filelist.FromIum(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "X", text(t, decoded, "x.txt"))
}

func TestFS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := filelist.New()
	require.NoError(t, c.AppendText(ctx, "dir/a.txt", "a"))
	require.NoError(t, c.AppendText(ctx, "dir.txt", "top"))
	require.NoError(t, c.AppendBytes(ctx, "archive.zip", testutil.Zip(t,
		testutil.ZipEntry{Name: "nested/b.txt", Data: []byte("b")},
	)))

	fsys := c.FS(ctx)
	require.NoError(t, fstest.TestFS(fsys, "dir/a.txt", "dir.txt", "archive.zip/nested/b.txt"))
}
