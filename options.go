package filelist

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// Default option values.
var (
	DefaultZipExtensions  = []string{"zip"}
	DefaultGzipExtensions = []string{"gz"}
)

// FilterOptions selects which paths enter a collection.
type FilterOptions struct {
	// IgnoreDotfiles drops any path with a segment starting with ".".
	// Defaults to true.
	IgnoreDotfiles *bool `json:"ignoreDotfiles,omitempty" yaml:"ignoreDotfiles"`
}

// UnzipOptions controls zip expansion.
type UnzipOptions struct {
	// ZipExtensions lists the extensions treated as zip archives. An empty,
	// non-nil list disables unzipping. Defaults to DefaultZipExtensions.
	ZipExtensions []string `json:"zipExtensions,omitzero" yaml:"zipExtensions"`
	// Recursive re-expands the entries of an archive. Defaults to true.
	Recursive *bool `json:"recursive,omitempty" yaml:"recursive"`
}

// UngzipOptions controls gzip expansion.
type UngzipOptions struct {
	// GzipExtensions lists the extensions treated as gzip streams. An empty,
	// non-nil list disables ungzipping. Defaults to DefaultGzipExtensions.
	GzipExtensions []string `json:"gzipExtensions,omitzero" yaml:"gzipExtensions"`
}

// Options drive filtering, expansion and caching. Unset fields fall back to
// their defaults; see Merge for how layers combine.
type Options struct {
	Filter *FilterOptions `json:"filter,omitempty" yaml:"filter"`
	Unzip  *UnzipOptions  `json:"unzip,omitempty" yaml:"unzip"`
	Ungzip *UngzipOptions `json:"ungzip,omitempty" yaml:"ungzip"`

	// Cache memoizes the bytes of each source after the first read.
	Cache *bool `json:"cache,omitempty" yaml:"cache"`

	// Logger receives expansion and merge diagnostics. It is never
	// serialized.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Bool returns a pointer to v, for optional option fields.
func Bool(v bool) *bool {
	return &v
}

// DefaultOptions returns options with every field set to its default.
func DefaultOptions() Options {
	return Options{
		Filter: &FilterOptions{IgnoreDotfiles: Bool(true)},
		Unzip:  &UnzipOptions{ZipExtensions: slices.Clone(DefaultZipExtensions), Recursive: Bool(true)},
		Ungzip: &UngzipOptions{GzipExtensions: slices.Clone(DefaultGzipExtensions)},
		Cache:  Bool(false),
	}
}

// Merge returns o overlaid with every field set in other. Groups merge
// field by field, so overriding Unzip.Recursive keeps o's ZipExtensions.
func (o Options) Merge(other Options) Options {
	out := o.Clone()
	if other.Filter != nil {
		f := FilterOptions{}
		if out.Filter != nil {
			f = *out.Filter
		}
		if other.Filter.IgnoreDotfiles != nil {
			f.IgnoreDotfiles = Bool(*other.Filter.IgnoreDotfiles)
		}
		out.Filter = &f
	}
	if other.Unzip != nil {
		u := UnzipOptions{}
		if out.Unzip != nil {
			u = *out.Unzip
		}
		if other.Unzip.ZipExtensions != nil {
			u.ZipExtensions = slices.Clone(other.Unzip.ZipExtensions)
		}
		if other.Unzip.Recursive != nil {
			u.Recursive = Bool(*other.Unzip.Recursive)
		}
		out.Unzip = &u
	}
	if other.Ungzip != nil {
		g := UngzipOptions{}
		if out.Ungzip != nil {
			g = *out.Ungzip
		}
		if other.Ungzip.GzipExtensions != nil {
			g.GzipExtensions = slices.Clone(other.Ungzip.GzipExtensions)
		}
		out.Ungzip = &g
	}
	if other.Cache != nil {
		out.Cache = Bool(*other.Cache)
	}
	if other.Logger != nil {
		out.Logger = other.Logger
	}
	return out
}

// Clone returns a deep copy of o. The logger is shared.
func (o Options) Clone() Options {
	out := Options{Logger: o.Logger}
	if o.Filter != nil {
		f := *o.Filter
		if f.IgnoreDotfiles != nil {
			f.IgnoreDotfiles = Bool(*f.IgnoreDotfiles)
		}
		out.Filter = &f
	}
	if o.Unzip != nil {
		u := *o.Unzip
		u.ZipExtensions = cloneList(u.ZipExtensions)
		if u.Recursive != nil {
			u.Recursive = Bool(*u.Recursive)
		}
		out.Unzip = &u
	}
	if o.Ungzip != nil {
		g := *o.Ungzip
		g.GzipExtensions = cloneList(g.GzipExtensions)
		out.Ungzip = &g
	}
	if o.Cache != nil {
		out.Cache = Bool(*o.Cache)
	}
	return out
}

// cloneList keeps the nil versus empty distinction that slices.Clone loses.
func cloneList(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func (o Options) ignoreDotfiles() bool {
	if o.Filter == nil || o.Filter.IgnoreDotfiles == nil {
		return true
	}
	return *o.Filter.IgnoreDotfiles
}

func (o Options) zipExtensions() []string {
	if o.Unzip == nil || o.Unzip.ZipExtensions == nil {
		return DefaultZipExtensions
	}
	return o.Unzip.ZipExtensions
}

func (o Options) recursive() bool {
	if o.Unzip == nil || o.Unzip.Recursive == nil {
		return true
	}
	return *o.Unzip.Recursive
}

func (o Options) gzipExtensions() []string {
	if o.Ungzip == nil || o.Ungzip.GzipExtensions == nil {
		return DefaultGzipExtensions
	}
	return o.Ungzip.GzipExtensions
}

func (o Options) cache() bool {
	return o.Cache != nil && *o.Cache
}

func (o Options) log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// shouldAdd reports whether relativePath passes the filter.
func (o Options) shouldAdd(relativePath string) bool {
	if !o.ignoreDotfiles() {
		return true
	}
	return !pathutil.HasDotSegment(relativePath)
}

// hasExtension reports whether the extension of name is in exts, compared
// case-insensitively.
func hasExtension(name string, exts []string) bool {
	ext := pathutil.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}
