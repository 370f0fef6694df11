package http //nolint:revive // package name mirrors the transport it wraps

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
)

// ErrRangeUnsupported is returned when the server ignores Range headers.
var ErrRangeUnsupported = errors.New("range requests not supported")

// RangeReader reads a remote resource at arbitrary offsets with HTTP range
// requests. It implements io.ReaderAt, which lets callers sniff the first
// bytes of a large container without downloading it.
type RangeReader struct {
	ctx  context.Context
	url  string
	cfg  config
	size int64
	etag string
}

// NewRangeReader probes url with a one byte range request to learn its
// size. ctx bounds the probe and every later ReadAt.
func NewRangeReader(ctx context.Context, url string, opts ...Option) (*RangeReader, error) {
	r := &RangeReader{ctx: ctx, url: url, cfg: newConfig(opts)}

	resp, err := r.get(0, 0)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	crange := resp.Header.Get("Content-Range")
	if crange == "" {
		return nil, errors.New("range probe missing Content-Range")
	}
	size, err := parseContentRange(crange)
	if err != nil {
		return nil, err
	}
	r.size = size
	r.etag = resp.Header.Get("ETag")
	return r, nil
}

// Size returns the total size of the remote content.
func (r *RangeReader) Size() int64 {
	return r.size
}

// ReadAt reads len(p) bytes at off. Short reads at the end of the content
// return io.EOF.
func (r *RangeReader) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	if off >= r.size {
		return 0, io.EOF
	}

	end := off + int64(len(p)) - 1
	expected := len(p)
	if end >= r.size {
		end = r.size - 1
		expected = int(end - off + 1)
	}

	resp, err := r.get(off, end)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	defer drain(resp)

	n, err := io.ReadFull(resp.Body, p[:expected])
	if err != nil {
		return n, err
	}
	if expected < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// get requests bytes start through end inclusive and checks for a partial
// content answer.
func (r *RangeReader) get(start, end int64) (*nethttp.Response, error) {
	req, err := nethttp.NewRequestWithContext(r.ctx, nethttp.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	r.cfg.apply(req)
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "identity")
	}
	if r.etag != "" && req.Header.Get("If-Match") == "" {
		req.Header.Set("If-Match", r.etag)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := r.cfg.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case nethttp.StatusPartialContent:
		return resp, nil
	case nethttp.StatusRequestedRangeNotSatisfiable:
		drain(resp)
		return nil, io.EOF
	case nethttp.StatusOK:
		drain(resp)
		return nil, ErrRangeUnsupported
	default:
		drain(resp)
		return nil, fmt.Errorf("%w: range request %s: %s", ErrStatus, r.url, resp.Status)
	}
}

func drain(resp *nethttp.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func parseContentRange(value string) (int64, error) {
	value = strings.TrimSpace(value)
	rest, ok := strings.CutPrefix(value, "bytes ")
	if !ok {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	_, total, ok := strings.Cut(rest, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	size, err := strconv.ParseInt(total, 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("invalid Content-Range %q", value)
	}
	return size, nil
}
