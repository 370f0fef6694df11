package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  string
		base string
		want string
	}{
		{name: "simple", ref: "hello.txt", base: IumBase, want: "/hello.txt"},
		{name: "absolute path", ref: "/dir/a.txt", base: IumBase, want: "/dir/a.txt"},
		{name: "dot segments", ref: "./a/./b/../c.txt", base: IumBase, want: "/a/c.txt"},
		{name: "above root", ref: "../../a.txt", base: IumBase, want: "/a.txt"},
		{name: "trailing dot-dot", ref: "a/b/..", base: IumBase, want: "/a/"},
		{name: "empty segments kept", ref: "/a//b", base: IumBase, want: "/a//b"},
		{name: "space and brackets", ref: "a b<c>.txt", base: IumBase, want: "/a%20b%3Cc%3E.txt"},
		{name: "query and fragment dropped", ref: "a.txt?x=1#frag", base: IumBase, want: "/a.txt"},
		{name: "existing escapes kept", ref: "a%3Cb", base: IumBase, want: "/a%3Cb"},
		{name: "non ascii", ref: "é.txt", base: IumBase, want: "/%C3%A9.txt"},
		{name: "backslash kept for ium", ref: `a\b`, base: IumBase, want: `/a\b`},
		{name: "backslash separator for http", ref: `a\b`, base: "https://example.com/x/", want: "/x/a/b"},
		{
			name: "relative to http directory",
			ref:  "./ethylvinylether/index.nmrium",
			base: "https://cheminfo.github.io/nmr-dataset-demo/",
			want: "/nmr-dataset-demo/ethylvinylether/index.nmrium",
		},
		{name: "relative to http file", ref: "b.txt", base: "https://example.com/dir/a.txt", want: "/dir/b.txt"},
		{name: "absolute ref wins", ref: "https://example.com/z", base: IumBase, want: "/z"},
		{name: "encoded dot segment", ref: "a/%2e%2e/b", base: IumBase, want: "/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, err := Resolve(tt.ref, tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Pathname())
		})
	}
}

func TestResolveString(t *testing.T) {
	t.Parallel()

	u, err := Resolve("data/a b.json?v=1", "https://example.com/root/index.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/root/data/a%20b.json?v=1", u.String())
	assert.Equal(t, "https", u.Scheme())

	_, err = Resolve("a.txt", "not a url")
	require.ErrorIs(t, err, ErrInvalidURL)

	_, err = Resolve("a.txt", "mailto:someone@example.com")
	require.ErrorIs(t, err, ErrInvalidURL, "relative reference against an opaque base")
	assert.Empty(t, MustPathname("a.txt", "mailto:someone@example.com"))
}

func TestNameInfo(t *testing.T) {
	t.Parallel()

	rel, name := NameInfo("/dir/sub/hello.txt")
	assert.Equal(t, "dir/sub/hello.txt", rel)
	assert.Equal(t, "hello.txt", name)

	rel, _ = NameInfo(`deep/path/with special characters/foo/\bar/08:50:12/[baz]/*/5 < 10 > 5/1=1/file.txt#anchor removed`)
	assert.Equal(t,
		`deep/path/with%20special%20characters/foo/\bar/08:50:12/[baz]/*/5%20%3C%2010%20%3E%205/1=1/file.txt`,
		rel)
}

func TestSafePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "/extra//file:with$Special*%3CChar%3E.txt", want: "extra/file-with$Special-Char-.txt"},
		{in: "/data/subroot//file:with$Special*%3CChar%3E.txt", want: "data/subroot/file-with$Special-Char-.txt"},
		{in: "./a/b", want: "a/b"},
		{in: "a\x01b\x7fc", want: "abc"},
		{in: "a+,;=b", want: "a-b"},
		{in: "%zz", want: "%zz"},
		{in: "/data/a%20b.txt", want: "data/a b.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafePath(tt.in), "SafePath(%q)", tt.in)
	}
}

func TestSourcePaths(t *testing.T) {
	t.Parallel()

	_, safe, legacy, err := SourcePaths("./ethylvinylether/index.nmrium", "https://cheminfo.github.io/nmr-dataset-demo/", false)
	require.NoError(t, err)
	assert.Equal(t, "/data/nmr-dataset-demo/ethylvinylether/index.nmrium", legacy)
	assert.Equal(t, "data/nmr-dataset-demo/ethylvinylether/index.nmrium", safe)

	u, safe, legacy, err := SourcePaths("/extra//file:with$Special*%3CChar%3E.txt", IumBase, true)
	require.NoError(t, err)
	assert.Equal(t, "ium", u.Scheme())
	assert.Equal(t, "/extra//file:with$Special*%3CChar%3E.txt", legacy)
	assert.Equal(t, "extra/file-with$Special-Char-.txt", safe)
}

func TestIumPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "data/hello.txt", IumPath("hello.txt", false))
	assert.Equal(t, "data/hello.txt", IumPath("//hello.txt", false))
	assert.Equal(t, "meta/extra.json", IumPath("meta/extra.json", true))
	assert.Equal(t, "/data/a%20b.txt", IumLegacyPath("a b.txt", false))
}

func TestZipPath(t *testing.T) {
	t.Parallel()

	used := map[string]struct{}{}
	assert.Equal(t, "a/b.txt", ZipPath("a/b.txt", IumBase, "u1", used))
	assert.Equal(t, "u2/a/b.txt", ZipPath("a/b.txt", "", "u2", used))
	assert.Equal(t, "dir/c.txt", ZipPath("c.txt", "https://example.com/dir/", "u3", used))
}

func TestSubPathHelpers(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"sub", "sub/", "/sub", "./sub", "./sub/"} {
		assert.Equal(t, "sub", SanitizeSubPath(in), in)
	}
	assert.Equal(t, "a.txt", JoinSub("", "a.txt"))
	assert.Equal(t, "sub/a.txt", JoinSub("sub", "a.txt"))
	assert.Equal(t, "index.json", EntryName("//index.json"))
	assert.Equal(t, "data/a/b", EntryName("/data//a///b"))
}

func TestExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gz", Ext("dir/a.TXT.GZ"))
	assert.Equal(t, "readme", Ext("dir/README"))
	assert.Equal(t, "a.txt", TrimExt("a.txt.gz"))
	assert.Equal(t, "a.", TrimExt("a."))
	assert.True(t, HasDotSegment("dir/.hidden/x.txt"))
	assert.False(t, HasDotSegment("dir/x.txt"))
	assert.Equal(t, "c", Base("a/b/c/"))
}
