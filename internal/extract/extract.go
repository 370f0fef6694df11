// Package extract writes the files of a collection to a directory.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cheminfo/filelist"
)

// ErrUnsafePath is returned for relative paths that would escape the
// destination directory.
var ErrUnsafePath = errors.New("extract: path escapes destination")

// Sink writes files below a destination directory with atomic writes.
//
// Each file is written to a temporary file in its target directory and
// renamed into place once complete, so partially written files are never
// visible at the final path.
type Sink struct {
	destDir       string
	overwrite     bool
	preserveTimes bool
	workers       int // 0 = GOMAXPROCS, <0 = serial
}

// Option configures a Sink.
type Option func(*Sink)

// WithOverwrite allows replacing existing files. By default they are
// skipped.
func WithOverwrite(overwrite bool) Option {
	return func(s *Sink) {
		s.overwrite = overwrite
	}
}

// WithPreserveTimes sets the modification time of written files from
// File.LastModified when it is known.
func WithPreserveTimes(preserve bool) Option {
	return func(s *Sink) {
		s.preserveTimes = preserve
	}
}

// WithWorkers sets how many files are written concurrently. Values < 0
// force serial writes; zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Sink) {
		s.workers = n
	}
}

// NewSink creates a Sink writing below destDir. Missing directories are
// created as needed.
func NewSink(destDir string, opts ...Option) *Sink {
	s := &Sink{destDir: destDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection writes every file of c and returns how many were written.
// Paths are checked before anything is written. Writing stops at the first
// error.
func (s *Sink) Collection(ctx context.Context, c *filelist.Collection) (int, error) {
	files := c.Files()
	dests := make([]string, len(files))
	for i, f := range files {
		dest, err := s.path(f.RelativePath)
		if err != nil {
			return 0, err
		}
		dests[i] = dest
	}

	var written atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount(len(files)))
	for i, f := range files {
		if !s.shouldWrite(dests[i]) {
			continue
		}
		g.Go(func() error {
			if err := s.write(ctx, f, dests[i]); err != nil {
				return fmt.Errorf("extract %s: %w", f.RelativePath, err)
			}
			written.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}

func (s *Sink) path(relativePath string) (string, error) {
	local := filepath.FromSlash(relativePath)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, relativePath)
	}
	return filepath.Join(s.destDir, local), nil
}

func (s *Sink) shouldWrite(dest string) bool {
	if s.overwrite {
		return true
	}
	_, err := os.Stat(dest)
	return errors.Is(err, os.ErrNotExist)
}

func (s *Sink) workerCount(n int) int {
	if s.workers < 0 {
		return 1
	}
	workers := s.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, n))
}

func (s *Sink) write(ctx context.Context, f *filelist.File, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	src, err := f.Open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, ".ium-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if s.preserveTimes && f.LastModified > 0 {
		mtime := time.UnixMilli(f.LastModified)
		if err := os.Chtimes(tmpPath, mtime, mtime); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("chtimes: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename to %s: %w", dest, err)
	}
	return nil
}
