package filelist

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// MergeStrategy decides what happens when merged files collide with files
// already in the collection.
type MergeStrategy string

const (
	// MergeError fails on the first colliding path. It is the default.
	MergeError MergeStrategy = "error"
	// MergeIgnoreSimilar skips colliding files whose source (same UUID at
	// the same path) is already in the collection and fails otherwise.
	MergeIgnoreSimilar MergeStrategy = "ignore-similar"
	// MergeIgnore skips sources whose UUID or path is already present,
	// their files, and any colliding file, and logs what was skipped.
	MergeIgnore MergeStrategy = "ignore"
)

// MergeOption configures AppendCollection.
type MergeOption func(*mergeConfig)

type mergeConfig struct {
	strategy MergeStrategy
	logger   *slog.Logger
}

// WithMergeStrategy selects the collision strategy.
func WithMergeStrategy(s MergeStrategy) MergeOption {
	return func(c *mergeConfig) {
		c.strategy = s
	}
}

// WithMergeLogger sets the logger receiving the MergeIgnore warning.
// Defaults to the collection logger.
func WithMergeLogger(logger *slog.Logger) MergeOption {
	return func(c *mergeConfig) {
		c.logger = logger
	}
}

// Merge appends clones of the sources and files of other below subPath,
// failing on any path collision.
func (c *Collection) Merge(other *Collection, subPath string) error {
	return c.AppendCollection(other, subPath)
}

// AppendCollection appends clones of the sources and files of other with
// their paths prefixed by subPath. Sources remember their previous path in
// OriginalRelativePath. A source keeps its UUID unless the collection
// already holds one with that UUID, in which case it and its files get a
// fresh one. Nothing is appended when an error is returned.
//
// A collision is reported as ErrDuplicatePath followed by the path of the
// file in other, without the subPath prefix.
func (c *Collection) AppendCollection(other *Collection, subPath string, opts ...MergeOption) error {
	cfg := mergeConfig{strategy: MergeError}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = c.log()
	}

	sub := pathutil.SanitizeSubPath(subPath)
	m := merger{
		sub:          sub,
		otherSources: other.Sources(),
		otherFiles:   other.Files(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	m.remap(c.sources)

	switch cfg.strategy {
	case MergeError:
		return m.appendError(c)
	case MergeIgnoreSimilar:
		return m.appendIgnoreSimilar(c)
	case MergeIgnore:
		m.appendIgnore(c, cfg.logger)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMergeStrategy, cfg.strategy)
	}
}

type merger struct {
	sub          string
	otherSources []*Source
	otherFiles   []*File
	ids          map[string]string
}

// remap assigns a fresh UUID to every incoming source whose UUID is live.
func (m *merger) remap(live []*Source) {
	taken := make(map[string]struct{}, len(live))
	for _, s := range live {
		taken[s.UUID] = struct{}{}
	}
	m.ids = make(map[string]string)
	for _, s := range m.otherSources {
		if _, ok := taken[s.UUID]; ok {
			m.ids[s.UUID] = uuid.NewString()
		}
	}
}

func (m merger) id(old string) string {
	if id, ok := m.ids[old]; ok {
		return id
	}
	return old
}

func (m merger) source(s *Source) *Source {
	out := s.Clone()
	out.UUID = m.id(s.UUID)
	if out.OriginalRelativePath == "" {
		out.OriginalRelativePath = out.RelativePath
	}
	out.RelativePath = pathutil.JoinSub(m.sub, out.RelativePath)
	return out
}

func (m merger) file(f *File) *File {
	out := f.Clone()
	out.RelativePath = pathutil.JoinSub(m.sub, f.RelativePath)
	out.SourceUUID = m.id(f.SourceUUID)
	return out
}

func filePaths(files []*File) map[string]struct{} {
	paths := make(map[string]struct{}, len(files))
	for _, f := range files {
		paths[f.RelativePath] = struct{}{}
	}
	return paths
}

func (m merger) appendError(c *Collection) error {
	known := make(map[string]struct{}, len(m.otherSources))
	for _, s := range m.otherSources {
		known[s.UUID] = struct{}{}
	}
	existing := filePaths(c.files)
	files := make([]*File, 0, len(m.otherFiles))
	for _, f := range m.otherFiles {
		if _, ok := known[f.SourceUUID]; !ok {
			return fmt.Errorf("%w: file %s has no source", ErrUnreachable, f.RelativePath)
		}
		nf := m.file(f)
		if _, ok := existing[nf.RelativePath]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, f.RelativePath)
		}
		existing[nf.RelativePath] = struct{}{}
		files = append(files, nf)
	}
	for _, s := range m.otherSources {
		c.sources = append(c.sources, m.source(s))
	}
	c.files = append(c.files, files...)
	return nil
}

func (m merger) appendIgnoreSimilar(c *Collection) error {
	selfSources := make(map[string]struct{}, len(c.sources))
	for _, s := range c.sources {
		selfSources[s.UUID+":"+s.RelativePath] = struct{}{}
	}
	otherSources := make(map[string]*Source, len(m.otherSources))
	for _, s := range m.otherSources {
		otherSources[s.UUID] = s
	}
	existing := filePaths(c.files)

	ignored := make(map[string]struct{})
	files := make([]*File, 0, len(m.otherFiles))
	origin := make([]string, 0, len(m.otherFiles))
	for _, f := range m.otherFiles {
		nf := m.file(f)
		if _, ok := existing[nf.RelativePath]; ok {
			s, ok := otherSources[f.SourceUUID]
			if !ok {
				continue
			}
			if _, ok := selfSources[s.UUID+":"+pathutil.JoinSub(m.sub, s.RelativePath)]; ok {
				ignored[s.UUID] = struct{}{}
				continue
			}
			return fmt.Errorf("%w: %s", ErrDuplicatePath, f.RelativePath)
		}
		files = append(files, nf)
		origin = append(origin, f.SourceUUID)
	}

	// Files of an ignored source belong to the source already present.
	for i, nf := range files {
		if _, ok := ignored[origin[i]]; ok {
			nf.SourceUUID = origin[i]
		}
	}
	c.files = append(c.files, files...)
	for _, s := range m.otherSources {
		if _, ok := ignored[s.UUID]; ok {
			continue
		}
		c.sources = append(c.sources, m.source(s))
	}
	return nil
}

func (m merger) appendIgnore(c *Collection, logger *slog.Logger) {
	byID := make(map[string]struct{}, len(c.sources))
	byPath := make(map[string]struct{}, len(c.sources))
	for _, s := range c.sources {
		byID[s.UUID] = struct{}{}
		byPath[s.RelativePath] = struct{}{}
	}

	ignoredSources := make(map[string]string)
	for _, s := range m.otherSources {
		_, idTaken := byID[s.UUID]
		_, pathTaken := byPath[s.RelativePath]
		if idTaken || pathTaken {
			ignoredSources[s.UUID] = s.RelativePath
			continue
		}
		c.sources = append(c.sources, m.source(s))
	}

	existing := filePaths(c.files)
	var ignoredFiles []string
	for _, f := range m.otherFiles {
		nf := m.file(f)
		_, sourceIgnored := ignoredSources[f.SourceUUID]
		_, pathTaken := existing[nf.RelativePath]
		if sourceIgnored || pathTaken {
			ignoredFiles = append(ignoredFiles, nf.RelativePath)
			continue
		}
		c.files = append(c.files, nf)
	}

	if len(ignoredSources) > 0 || len(ignoredFiles) > 0 {
		logger.Warn("Ignored files or sources", "sources", ignoredSources, "files", ignoredFiles)
	}
}
