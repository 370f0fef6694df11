package filelist_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/internal/testutil"
)

type countingServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newCountingServer(t *testing.T, files map[string][]byte) *countingServer {
	t.Helper()
	s := &countingServer{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		if r.Header.Get("X-Token") == "denied" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *countingServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func TestAppendWebSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newCountingServer(t, map[string][]byte{
		"/demo/list.json": []byte(`{"entries":[
			{"relativePath":"data/a.txt","lastModified":42,"size":1},
			{"relativePath":"c.zip"},
			{"relativePath":".hidden/x.txt"}
		]}`),
		"/demo/data/a.txt": []byte("a"),
		"/demo/c.zip":      testutil.Zip(t, testutil.ZipEntry{Name: "x.txt", Data: []byte("x")}),
	})

	c := filelist.New()
	require.NoError(t, c.AppendWebSource(ctx, server.URL+"/demo/list.json"))
	c.Alphabetical()

	assert.Equal(t, []string{"c.zip/x.txt", "data/a.txt"}, paths(c))
	assert.Equal(t, 1, server.count("/demo/c.zip"), "archives are fetched to expand them")
	assert.Zero(t, server.count("/demo/data/a.txt"), "plain files are fetched lazily")

	assert.Equal(t, "a", text(t, c, "data/a.txt"))
	assert.Equal(t, "x", text(t, c, "c.zip/x.txt"))

	f, _ := c.File("data/a.txt")
	assert.EqualValues(t, 42, f.LastModified)
	assert.Equal(t, server.URL+"/demo/list.json", f.BaseURL)
}

func TestAppendSourceBaseURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newCountingServer(t, map[string][]byte{
		"/entry/a.txt":   []byte("entry"),
		"/listing/b.txt": []byte("listing"),
		"/call/c.txt":    []byte("call"),
		"/default/d.txt": []byte("default"),
	})

	c := filelist.New(filelist.WithBaseURL(server.URL + "/default/"))
	require.NoError(t, c.AppendSource(ctx, filelist.WebSource{
		BaseURL: server.URL + "/listing/",
		Entries: []filelist.SourceEntry{
			{RelativePath: "a.txt", BaseURL: server.URL + "/entry/"},
			{RelativePath: "b.txt"},
		},
	}, filelist.WithSourceBaseURL(server.URL+"/call/")))
	require.NoError(t, c.AppendSource(ctx, filelist.WebSource{
		Entries: []filelist.SourceEntry{{RelativePath: "c.txt"}},
	}, filelist.WithSourceBaseURL(server.URL+"/call/")))
	require.NoError(t, c.AppendSource(ctx, filelist.WebSource{
		Entries: []filelist.SourceEntry{{RelativePath: "d.txt"}},
	}))

	assert.Equal(t, "entry", text(t, c, "a.txt"))
	assert.Equal(t, "listing", text(t, c, "b.txt"))
	assert.Equal(t, "call", text(t, c, "c.txt"))
	assert.Equal(t, "default", text(t, c, "d.txt"))
}

func TestAppendSourceMissingBaseURL(t *testing.T) {
	t.Parallel()

	_, err := filelist.FromSource(context.Background(), filelist.WebSource{
		Entries: []filelist.SourceEntry{{RelativePath: "a.txt"}},
	})
	require.ErrorIs(t, err, filelist.ErrMissingBaseURL)
	assert.ErrorContains(t, err, "We could not find a baseURL for a.txt")
}

func TestRemoteFetchErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newCountingServer(t, map[string][]byte{"/a.txt": []byte("a")})

	c, err := filelist.FromSource(ctx, filelist.WebSource{
		BaseURL: server.URL + "/",
		Entries: []filelist.SourceEntry{{RelativePath: "missing.txt"}},
	})
	require.NoError(t, err)
	f, _ := c.File("missing.txt")
	_, err = f.Bytes(ctx)
	require.ErrorIs(t, err, filelist.ErrFetch)

	denied, err := filelist.FromSource(ctx, filelist.WebSource{
		BaseURL: server.URL + "/",
		Entries: []filelist.SourceEntry{{RelativePath: "a.txt"}},
	}, filelist.WithHTTPHeaders(http.Header{"X-Token": []string{"denied"}}))
	require.NoError(t, err)
	f, _ = denied.File("a.txt")
	_, err = f.Bytes(ctx)
	require.ErrorIs(t, err, filelist.ErrFetch)
}

func TestFetchCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newCountingServer(t, map[string][]byte{"/a.txt": []byte("a")})
	ws := filelist.WebSource{
		BaseURL: server.URL + "/",
		Entries: []filelist.SourceEntry{{RelativePath: "a.txt"}},
	}

	fc := testutil.NewMockCache()
	cached, err := filelist.FromSource(ctx, ws, filelist.WithFetchCache(fc))
	require.NoError(t, err)
	for range 3 {
		assert.Equal(t, "a", text(t, cached, "a.txt"))
	}
	assert.Equal(t, 1, server.count("/a.txt"))
	assert.Equal(t, 1, fc.Len())
	assert.Equal(t, 2, fc.Hits())

	uncached, err := filelist.FromSource(ctx, ws)
	require.NoError(t, err)
	for range 3 {
		assert.Equal(t, "a", text(t, uncached, "a.txt"))
	}
	assert.Equal(t, 4, server.count("/a.txt"))
}
