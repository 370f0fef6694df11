package filelist

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	nethttp "net/http"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/cheminfo/filelist/cache"
	filehttp "github.com/cheminfo/filelist/http"
	"github.com/cheminfo/filelist/internal/pathutil"
)

// Collection is an ordered set of logical files together with the sources
// they were expanded from.
//
// A Collection is safe for concurrent use: appends may run in parallel and
// are serialized when they mutate the file and source lists.
type Collection struct {
	mu      sync.Mutex
	sources []*Source
	files   []*File
	options Options

	baseURL     string
	httpOpts    []filehttp.Option
	fetchCache  cache.Cache
	fetchGroup  singleflight.Group
	fetcherOnce sync.Once
	fetcher     *filehttp.Fetcher
}

// Option configures a Collection.
type Option func(*Collection)

// WithOptions sets the collection-level options. Per-source and per-call
// options are merged on top of them.
func WithOptions(o Options) Option {
	return func(c *Collection) {
		c.options = c.options.Merge(o)
	}
}

// WithLogger sets the logger used for expansion and merge diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collection) {
		c.options.Logger = logger
	}
}

// WithBaseURL sets the base URL used for remote source entries that carry
// none themselves.
func WithBaseURL(baseURL string) Option {
	return func(c *Collection) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the client used to fetch remote sources.
func WithHTTPClient(client *nethttp.Client) Option {
	return func(c *Collection) {
		c.httpOpts = append(c.httpOpts, filehttp.WithClient(client))
	}
}

// WithHTTPHeaders adds headers to every remote fetch.
func WithHTTPHeaders(headers nethttp.Header) Option {
	return func(c *Collection) {
		c.httpOpts = append(c.httpOpts, filehttp.WithHeaders(headers))
	}
}

// WithFetchCache stores the bytes of remote sources in cache, keyed by the
// digest of their URL.
func WithFetchCache(fc cache.Cache) Option {
	return func(c *Collection) {
		c.fetchCache = fc
	}
}

// New creates an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromCollection returns a copy of other with every Source and File
// cloned. opts are applied after other's settings, so WithOptions merges
// over the options of other.
func FromCollection(other *Collection, opts ...Option) *Collection {
	other.mu.Lock()
	c := &Collection{
		options:    other.options.Clone(),
		baseURL:    other.baseURL,
		httpOpts:   slices.Clone(other.httpOpts),
		fetchCache: other.fetchCache,
		sources:    cloneSources(other.sources),
		files:      cloneFiles(other.files),
	}
	other.mu.Unlock()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone returns a deep copy of c.
func (c *Collection) Clone() *Collection {
	return FromCollection(c)
}

// empty returns a collection sharing the configuration of c but no data.
func (c *Collection) empty() *Collection {
	return &Collection{
		options:    c.options.Clone(),
		baseURL:    c.baseURL,
		httpOpts:   slices.Clone(c.httpOpts),
		fetchCache: c.fetchCache,
	}
}

// Options returns a copy of the collection-level options.
func (c *Collection) Options() Options {
	return c.options.Clone()
}

// Sources returns the sources in collection order.
func (c *Collection) Sources() []*Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sources)
}

// Files returns the files in collection order.
func (c *Collection) Files() []*File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.files)
}

// Len returns the number of files.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

// All iterates over the files in collection order.
func (c *Collection) All() iter.Seq[*File] {
	return slices.Values(c.Files())
}

// File returns the file at relativePath.
func (c *Collection) File(relativePath string) (*File, bool) {
	rel, _ := pathutil.NameInfo(relativePath)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.files {
		if f.RelativePath == rel {
			return f, true
		}
	}
	return nil, false
}

// Source returns the source with the given UUID.
func (c *Collection) Source(uuid string) (*Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.sources {
		if s.UUID == uuid {
			return s, true
		}
	}
	return nil, false
}

// Alphabetical sorts sources and files by relative path, in place, and
// returns c.
func (c *Collection) Alphabetical() *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	slices.SortStableFunc(c.sources, func(a, b *Source) int {
		return cmp.Compare(a.RelativePath, b.RelativePath)
	})
	slices.SortStableFunc(c.files, func(a, b *File) int {
		return cmp.Compare(a.RelativePath, b.RelativePath)
	})
	return c
}

// RemoveFile removes the file at relativePath and returns it. The source of
// the file is removed too once no other file refers to it. Removing a path
// that is not in the collection is a no-op returning nil.
func (c *Collection) RemoveFile(relativePath string) (*File, error) {
	rel, _ := pathutil.NameInfo(relativePath)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeFileLocked(rel)
}

func (c *Collection) removeFileLocked(rel string) (*File, error) {
	i := slices.IndexFunc(c.files, func(f *File) bool { return f.RelativePath == rel })
	if i < 0 {
		return nil, nil
	}
	removed := c.files[i]
	c.files = slices.Delete(c.files, i, i+1)

	if slices.ContainsFunc(c.files, func(f *File) bool { return f.SourceUUID == removed.SourceUUID }) {
		return removed, nil
	}
	j := slices.IndexFunc(c.sources, func(s *Source) bool { return s.UUID == removed.SourceUUID })
	if j < 0 {
		return removed, fmt.Errorf("%w: source not found for UUID: %s", ErrUnreachable, removed.SourceUUID)
	}
	c.sources = slices.Delete(c.sources, j, j+1)
	c.log().Debug("removed orphaned source", "uuid", removed.SourceUUID, "path", rel)
	return removed, nil
}

func (c *Collection) log() *slog.Logger {
	return c.options.log()
}

func (c *Collection) httpFetcher() *filehttp.Fetcher {
	c.fetcherOnce.Do(func() {
		c.fetcher = filehttp.NewFetcher(c.httpOpts...)
	})
	return c.fetcher
}

// remoteOpener returns an opener fetching url on every call, or once per
// URL across the collection when a fetch cache is configured.
func (c *Collection) remoteOpener(url string) opener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		if c.fetchCache == nil {
			return c.httpFetcher().Open(ctx, url)
		}
		data, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return bytesOpener(data)(ctx)
	}
}

func (c *Collection) fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key(url)
	if data, ok := c.fetchCache.Get(key); ok {
		return data, nil
	}
	v, err, _ := c.fetchGroup.Do(url, func() (any, error) {
		data, err := c.httpFetcher().Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := c.fetchCache.Put(key, data); err != nil {
			c.log().Warn("caching remote source failed", "url", url, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func cloneSources(in []*Source) []*Source {
	out := make([]*Source, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneFiles(in []*File) []*File {
	out := make([]*File, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}
