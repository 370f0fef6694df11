package http //nolint:revive // package name mirrors the transport it wraps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
)

// ErrStatus is returned when a server answers with a non-2xx status.
var ErrStatus = errors.New("unexpected HTTP status")

// Fetcher downloads whole resources.
type Fetcher struct {
	cfg config
}

// NewFetcher returns a Fetcher. Without WithClient it uses
// http.DefaultClient.
func NewFetcher(opts ...Option) *Fetcher {
	return &Fetcher{cfg: newConfig(opts)}
}

// Open issues a GET and returns the response body. The caller closes it.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request %s: %w", url, err)
	}
	f.cfg.apply(req)

	resp, err := f.cfg.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: get %s: %s", ErrStatus, url, resp.Status)
	}
	return resp.Body, nil
}

// Fetch returns the whole body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := f.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// FetchJSON decodes the JSON body of url into v.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, v any) error {
	body, err := f.Open(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
