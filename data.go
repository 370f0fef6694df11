package filelist

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cheminfo/filelist/internal/file"
)

// opener opens a fresh stream over the bytes of an item.
type opener func(ctx context.Context) (io.ReadCloser, error)

type cellState uint8

const (
	notFetched cellState = iota
	fetched
)

// accessor is the lazy data handle shared by a Source and the Files derived
// from it. With caching enabled the first successful read is memoized and
// later reads are served from memory; failed reads are not memoized.
type accessor struct {
	open  opener
	cache bool

	mu    sync.Mutex
	state cellState
	data  []byte
}

func newAccessor(open opener, cache bool) *accessor {
	return &accessor{open: open, cache: cache}
}

func bytesOpener(b []byte) opener {
	return func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
}

// Open returns a stream over the data.
func (a *accessor) Open(ctx context.Context) (io.ReadCloser, error) {
	a.mu.Lock()
	if a.state == fetched {
		data := a.data
		a.mu.Unlock()
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	a.mu.Unlock()
	return a.open(ctx)
}

// Bytes returns the whole data.
func (a *accessor) Bytes(ctx context.Context) ([]byte, error) {
	if !a.cache {
		return a.read(ctx)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == fetched {
		return a.data, nil
	}
	data, err := a.read(ctx)
	if err != nil {
		return nil, err
	}
	a.data = data
	a.state = fetched
	return data, nil
}

func (a *accessor) read(ctx context.Context) ([]byte, error) {
	rc, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return file.ReadAll(ctx, rc)
}

// fresh returns an accessor over the same data with its own memo cell.
func (a *accessor) fresh(cache bool) *accessor {
	if a == nil {
		return nil
	}
	return newAccessor(a.open, cache)
}

// head reads up to n leading bytes.
func (a *accessor) head(ctx context.Context, n int) ([]byte, error) {
	rc, err := a.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf := make([]byte, n)
	m, err := io.ReadFull(rc, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:m], nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
