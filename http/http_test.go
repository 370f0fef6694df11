package http_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	filehttp "github.com/cheminfo/filelist/http"
)

func TestRangeReaderReadAt(t *testing.T) {
	data := []byte("hello world")
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.ServeContent(w, r, "data", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(server.Close)

	src, err := filehttp.NewRangeReader(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("NewRangeReader() error = %v", err)
	}
	if src.Size() != int64(len(data)) {
		t.Fatalf("Size() = %d, want %d", src.Size(), len(data))
	}

	buf := make([]byte, 5)
	n, err := src.ReadAt(buf, 6)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if n != len(buf) || string(buf) != "world" {
		t.Fatalf("ReadAt() got %q (%d bytes), want %q", string(buf[:n]), n, "world")
	}

	edge := make([]byte, 10)
	n, err = src.ReadAt(edge, int64(len(data)-3))
	if err != io.EOF {
		t.Fatalf("ReadAt() error = %v, want io.EOF", err)
	}
	if string(edge[:n]) != "rld" {
		t.Fatalf("ReadAt() got %q, want %q", string(edge[:n]), "rld")
	}
}

func TestRangeReaderUnsupported(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = w.Write([]byte("range unsupported"))
	}))
	t.Cleanup(server.Close)

	_, err := filehttp.NewRangeReader(context.Background(), server.URL)
	if !errors.Is(err, filehttp.ErrRangeUnsupported) {
		t.Fatalf("NewRangeReader() error = %v, want ErrRangeUnsupported", err)
	}
}

func TestFetcher(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/data.txt":
			if r.Header.Get("X-Token") != "secret" {
				w.WriteHeader(nethttp.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("payload"))
		case "/source.json":
			_, _ = w.Write([]byte(`{"entries":[{"relativePath":"a.txt"}]}`))
		default:
			nethttp.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	ctx := context.Background()
	f := filehttp.NewFetcher(filehttp.WithHeader("X-Token", "secret"))

	got, err := f.Fetch(ctx, server.URL+"/data.txt")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("Fetch() = %q, want %q", got, "payload")
	}

	var v struct {
		Entries []struct {
			RelativePath string `json:"relativePath"`
		} `json:"entries"`
	}
	if err := f.FetchJSON(ctx, server.URL+"/source.json", &v); err != nil {
		t.Fatalf("FetchJSON() error = %v", err)
	}
	if len(v.Entries) != 1 || v.Entries[0].RelativePath != "a.txt" {
		t.Fatalf("FetchJSON() = %+v", v)
	}

	_, err = f.Fetch(ctx, server.URL+"/missing")
	if !errors.Is(err, filehttp.ErrStatus) {
		t.Fatalf("Fetch() error = %v, want ErrStatus", err)
	}

	_, err = filehttp.NewFetcher().Fetch(ctx, server.URL+"/data.txt")
	if !errors.Is(err, filehttp.ErrStatus) {
		t.Fatalf("Fetch() without header error = %v, want ErrStatus", err)
	}
}
