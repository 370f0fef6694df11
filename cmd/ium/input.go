package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/cheminfo/filelist"
	filehttp "github.com/cheminfo/filelist/http"
)

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// readInput returns the raw bytes of a local file or URL.
func (a *app) readInput(ctx context.Context, input string) ([]byte, error) {
	if isURL(input) {
		return filehttp.NewFetcher().Fetch(ctx, input)
	}
	return os.ReadFile(input)
}

// loadCollection opens input as a collection. Directories are walked,
// IUM containers and zip archives are decoded, and any other file
// becomes a single-file collection.
func (a *app) loadCollection(ctx context.Context, input string) (*filelist.Collection, error) {
	if !isURL(input) {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return filelist.FromPath(ctx, input, a.collectionOptions()...)
		}
	}

	data, err := a.readInput(ctx, input)
	if err != nil {
		return nil, err
	}
	switch {
	case filelist.IsIum(data, a.mimetype):
		a.logger.Debug("decoding ium container", "input", input, "size", len(data))
		return filelist.FromIum(ctx, data,
			filelist.WithMimetypeValidation(a.mimetype),
			filelist.WithCollectionOptions(a.collectionOptions()...),
		)
	case filelist.IsZip(data):
		a.logger.Debug("decoding zip archive", "input", input, "size", len(data))
		return filelist.FromZip(ctx, data, a.collectionOptions()...)
	case isURL(input):
		u, _ := url.Parse(input)
		c := filelist.New(a.collectionOptions()...)
		if err := c.AppendBytes(ctx, path.Base(u.Path), data); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return filelist.FromPath(ctx, input, a.collectionOptions()...)
	}
}

func writeOutput(out string, data []byte) error {
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}
