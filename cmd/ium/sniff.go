package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cheminfo/filelist"
	filehttp "github.com/cheminfo/filelist/http"
)

func newSniffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sniff <file|url>",
		Short: "Report whether a file is an IUM container, a zip archive or neither",
		Long: `sniff inspects only the first bytes of its input. Remote files are
read with HTTP range requests when the server supports them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := a.sniff(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], kind)
			return nil
		},
	}
}

func (a *app) sniff(ctx context.Context, input string) (string, error) {
	r, size, closeFn, err := a.openAt(ctx, input)
	if errors.Is(err, filehttp.ErrRangeUnsupported) {
		a.logger.Debug("range requests unsupported, fetching whole file", "url", input)
		data, err := a.readInput(ctx, input)
		if err != nil {
			return "", err
		}
		return classify(data, a.mimetype), nil
	}
	if err != nil {
		return "", err
	}
	defer closeFn()

	ium, err := filelist.IsIumAt(r, size, a.mimetype)
	if err != nil {
		return "", err
	}
	if ium {
		return "ium (" + a.mimetype + ")", nil
	}
	zip, err := filelist.IsIumAt(r, size, "")
	if err != nil {
		return "", err
	}
	if zip {
		return "zip", nil
	}
	return "unknown", nil
}

func (a *app) openAt(ctx context.Context, input string) (io.ReaderAt, int64, func(), error) {
	if isURL(input) {
		rr, err := filehttp.NewRangeReader(ctx, input)
		if err != nil {
			return nil, 0, nil, err
		}
		return rr, rr.Size(), func() {}, nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, 0, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, nil, err
	}
	return f, info.Size(), func() { _ = f.Close() }, nil
}

func classify(data []byte, mimetype string) string {
	switch {
	case filelist.IsIum(data, mimetype):
		return "ium (" + mimetype + ")"
	case filelist.IsZip(data):
		return "zip"
	default:
		return "unknown"
	}
}
