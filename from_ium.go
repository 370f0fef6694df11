package filelist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/cheminfo/filelist/internal/file"
	"github.com/cheminfo/filelist/internal/manifest"
	"github.com/cheminfo/filelist/internal/pathutil"
)

// FromIumOption configures FromIum.
type FromIumOption func(*fromIumConfig)

type fromIumConfig struct {
	mimetype string
	validate bool
	opts     []Option
}

// WithMimetypeValidation rejects containers whose mimetype entry is not
// mimetype. An empty mimetype checks for DefaultMimetype.
func WithMimetypeValidation(mimetype string) FromIumOption {
	return func(c *fromIumConfig) {
		if mimetype == "" {
			mimetype = DefaultMimetype
		}
		c.mimetype = mimetype
		c.validate = true
	}
}

// WithCollectionOptions configures the decoded collection. The options
// stored in the container are applied first.
func WithCollectionOptions(opts ...Option) FromIumOption {
	return func(c *fromIumConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// FromIum decodes an IUM container. Embedded sources read their data from
// data, which must not be modified afterwards; remote sources are fetched
// when read. Containers written before version 2 of the manifest are
// migrated on the fly.
func FromIum(ctx context.Context, data []byte, opts ...FromIumOption) (*Collection, error) {
	var cfg fromIumConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	zr, err := file.OpenZip(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIum, err)
	}
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries[pathutil.EntryName(f.Name)] = f
	}

	if cfg.validate {
		got := ""
		if f, ok := entries["mimetype"]; ok {
			b, err := file.ReadEntry(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidIum, err)
			}
			got = string(b)
		}
		if got != cfg.mimetype {
			return nil, fmt.Errorf("%w: invalid mimetype %s, it should be %s.", ErrInvalidIum, got, cfg.mimetype) //nolint:revive,staticcheck // message is matched by callers
		}
	}

	indexFile, ok := entries[manifest.Name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidIum, manifest.Name)
	}
	raw, err := file.ReadEntry(ctx, indexFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIum, err)
	}
	idx, err := manifest.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIum, err)
	}

	var options Options
	if len(idx.Options) > 0 {
		if err := json.Unmarshal(idx.Options, &options); err != nil {
			return nil, fmt.Errorf("%w: options: %w", ErrInvalidIum, err)
		}
	}
	c := New(append([]Option{WithOptions(options)}, cfg.opts...)...)

	for _, rec := range idx.Sources {
		s, err := c.recordSource(rec, idx, entries)
		if err != nil {
			return nil, err
		}
		if err := c.AppendExtendedSource(ctx, s); err != nil {
			return nil, err
		}
	}
	return c.Alphabetical(), nil
}

// recordSource rebuilds a source from its manifest record. Embedded data
// is looked up under the entry name recorded for its UUID first, then
// under the names derived from its path. Records without a UUID only use
// the derived names.
func (c *Collection) recordSource(rec SourceRecord, idx Manifest, entries map[string]*zip.File) (*Source, error) {
	u, safe, legacy, err := pathutil.SourcePaths(rec.RelativePath, rec.BaseURL, rec.Extra)
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: %w", ErrInvalidIum, rec.RelativePath, err)
	}

	id := rec.UUID
	if id == "" {
		id = uuid.NewString()
	}

	var s *Source
	if u.Scheme() == "ium" {
		var recorded string
		candidates := []string{safe, legacy}
		if rec.UUID != "" {
			recorded = idx.Paths[rec.UUID]
			candidates = append([]string{recorded, idx.Paths[manifest.LegacyKey(rec.UUID)]}, candidates...)
		}
		var entry *zip.File
		for _, name := range candidates {
			if name == "" {
				continue
			}
			if f, ok := entries[pathutil.EntryName(name)]; ok {
				entry = f
				break
			}
		}
		if entry == nil {
			missing := safe
			if recorded != "" {
				missing = recorded
			}
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidIum, missing)
		}
		s = &Source{
			UUID:                 id,
			RelativePath:         rec.RelativePath,
			OriginalRelativePath: rec.OriginalRelativePath,
			BaseURL:              IumBaseURL,
			name:                 pathutil.Base(rec.RelativePath),
			data: newAccessor(func(context.Context) (io.ReadCloser, error) {
				return entry.Open()
			}, false),
		}
		if rec.Size == 0 {
			s.Size = int64(entry.UncompressedSize64) //nolint:gosec // zip sizes fit in int64
		}
	} else {
		s, err = c.remoteSource(id, rec.RelativePath, rec.OriginalRelativePath, rec.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIum, err)
		}
	}

	if rec.Size != 0 {
		s.Size = rec.Size
	}
	s.LastModified = rec.LastModified
	s.Extra = rec.Extra
	if len(rec.Options) > 0 {
		var o Options
		if err := json.Unmarshal(rec.Options, &o); err != nil {
			return nil, fmt.Errorf("%w: options of %s: %w", ErrInvalidIum, rec.RelativePath, err)
		}
		s.Options = &o
	}
	return s, nil
}
